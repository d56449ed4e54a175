package handlers

import (
	"github.com/TokenIQ-X/tokeniq-relay/relay"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// the relay core served by this HTTP surface, set once at startup
var rl *relay.Relay

func Init(r *relay.Relay) {
	rl = r
}

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

type SendRequest struct {
	Caller      string        `json:"caller"`
	Destination uint64        `json:"destination"`
	Receiver    string        `json:"receiver"`
	Payload     hexutil.Bytes `json:"payload,omitempty"`
	Asset       string        `json:"asset"`
	Amount      string        `json:"amount"`
	Settlement  string        `json:"settlement"`
	Attached    string        `json:"attached,omitempty"`
}

type SendResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId"`
}

// DeliverRequest is the wire form the transport posts to /deliver.
type DeliverRequest struct {
	MessageID string        `json:"messageId"`
	Source    uint64        `json:"source"`
	Sender    string        `json:"sender"`
	Payload   hexutil.Bytes `json:"payload"`
}

type AllowlistRequest struct {
	Subject string `json:"subject"`
	Allowed bool   `json:"allowed"`
}

type FeeAssetRequest struct {
	Asset string `json:"asset"`
}

type TransportRequest struct {
	RPCList []string `json:"rpcList"`
	Account string   `json:"account"`
}

type WithdrawRequest struct {
	// empty asset means the current fee asset
	Asset string `json:"asset,omitempty"`
	To    string `json:"to"`
}

type WithdrawResponse struct {
	Status string `json:"status"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

type FundRequest struct {
	From   string `json:"from"`
	Amount string `json:"amount"`
}

type BalanceResponse struct {
	Status  string `json:"status"`
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

type ProcessedResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId"`
	Processed bool   `json:"processed"`
}

type AllowlistMemberResponse struct {
	Status  string `json:"status"`
	Set     string `json:"set"`
	Subject string `json:"subject"`
	Allowed bool   `json:"allowed"`
}
