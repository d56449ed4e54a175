package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NetworkID is an opaque selector naming one of the ledgers the transport
// can reach. Values are assigned by the transport operator, see config.Networks.
type NetworkID uint64

// SettlementMode selects how the transport fee for a send is covered.
type SettlementMode int

const (
	// SettlementPrefundedReserve pays the fee from the relay's own standing
	// balance of the configured fee asset. The reserve is a shared pool.
	SettlementPrefundedReserve SettlementMode = iota
	// SettlementCallerAttachedPayment pays the fee from value attached to
	// the call, refunding any excess over the quote in the same operation.
	SettlementCallerAttachedPayment
)

func (m SettlementMode) String() string {
	switch m {
	case SettlementPrefundedReserve:
		return "reserve"
	case SettlementCallerAttachedPayment:
		return "attached"
	}
	return "unknown"
}

// ParseSettlementMode maps the wire/config names back to a mode.
func ParseSettlementMode(s string) (SettlementMode, bool) {
	switch s {
	case "reserve":
		return SettlementPrefundedReserve, true
	case "attached":
		return SettlementCallerAttachedPayment, true
	}
	return 0, false
}

// AssetAmount is a single (asset, amount) entry of a message's transfer list.
type AssetAmount struct {
	Asset  common.Address
	Amount *big.Int
}

// Message is the unit handed to the transport on dispatch and received back
// on delivery. ID is assigned by the transport at dispatch time and is the
// only correlation key between the two sides.
type Message struct {
	ID                 common.Hash
	SourceNetwork      NetworkID
	DestinationNetwork NetworkID
	Sender             common.Address
	Receiver           common.Address
	Payload            []byte
	AssetTransfers     []AssetAmount
	FeeSettlement      SettlementMode
}

// ReceivedSnapshot is the last successfully applied inbound delivery,
// kept for external observability.
type ReceivedSnapshot struct {
	MessageID common.Hash    `json:"messageId"`
	Payload   hexutil.Bytes  `json:"payload"`
	Asset     common.Address `json:"asset"`
	Amount    string         `json:"amount"`
	Data      string         `json:"data,omitempty"`
	TsApplied int64          `json:"tsApplied"`
}

type EventType string

const (
	EventAllowlistUpdated EventType = "allowlist_updated"
	EventFeeAssetUpdated  EventType = "fee_asset_updated"
	EventDispatched       EventType = "dispatched"
	EventDelivered        EventType = "delivered"
	EventWithdrawn        EventType = "withdrawn"
)

// Event is one entry of the append-only audit journal. Amounts are decimal
// strings so the JSON form survives redis round trips without precision loss.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TsCreated int64     `json:"tsCreated"`

	MessageID common.Hash    `json:"messageId,omitempty"`
	Network   NetworkID      `json:"network,omitempty"`
	Asset     common.Address `json:"asset,omitempty"`
	Amount    string         `json:"amount,omitempty"`
	FeeAsset  common.Address `json:"feeAsset,omitempty"`
	FeeAmount string         `json:"feeAmount,omitempty"`

	// allowlist mutations
	Set     string `json:"set,omitempty"`
	Subject string `json:"subject,omitempty"`
	Allowed bool   `json:"allowed,omitempty"`

	// withdrawals
	Recipient common.Address `json:"recipient,omitempty"`
}
