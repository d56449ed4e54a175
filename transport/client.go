package transport

import (
	"fmt"
	"log"
	"math/big"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ybbus/jsonrpc"
)

// Client is the JSON-RPC transport client. Endpoints are tried in order
// until one answers, same approach as a multi-RPC chain scanner.
type Client struct {
	endpoints []string
	account   common.Address
}

func NewClient(endpoints []string, account common.Address) *Client {
	return &Client{endpoints: endpoints, account: account}
}

func (c *Client) Account() common.Address {
	return c.account
}

// wire forms; amounts and selectors go as hex strings
type wireAssetAmount struct {
	Asset  common.Address `json:"asset"`
	Amount *hexutil.Big   `json:"amount"`
}

type wireMessage struct {
	Source      hexutil.Uint64   `json:"source"`
	Destination hexutil.Uint64   `json:"destination"`
	Sender      common.Address   `json:"sender"`
	Receiver    common.Address   `json:"receiver"`
	Payload     hexutil.Bytes    `json:"payload"`
	Transfers   []wireAssetAmount `json:"transfers"`
	Settlement  string           `json:"settlement"`
}

type wireFeeAuthorization struct {
	Asset  common.Address `json:"asset"`
	Amount *hexutil.Big   `json:"amount"`
}

type quoteResult struct {
	Fee *hexutil.Big `json:"fee"`
}

type dispatchResult struct {
	MessageID common.Hash `json:"messageId"`
}

func encodeMessage(msg *types.Message) wireMessage {
	transfers := make([]wireAssetAmount, 0, len(msg.AssetTransfers))
	for _, t := range msg.AssetTransfers {
		transfers = append(transfers, wireAssetAmount{Asset: t.Asset, Amount: (*hexutil.Big)(t.Amount)})
	}
	return wireMessage{
		Source:      hexutil.Uint64(msg.SourceNetwork),
		Destination: hexutil.Uint64(msg.DestinationNetwork),
		Sender:      msg.Sender,
		Receiver:    msg.Receiver,
		Payload:     msg.Payload,
		Transfers:   transfers,
		Settlement:  msg.FeeSettlement.String(),
	}
}

func (c *Client) Quote(dest types.NetworkID, msg *types.Message) (*big.Int, error) {
	var res quoteResult
	err := c.call("relay_quote", &res, hexutil.Uint64(dest), encodeMessage(msg))
	if err != nil {
		return nil, err
	}
	if res.Fee == nil {
		return nil, fmt.Errorf("transport quote with no fee")
	}
	return (*big.Int)(res.Fee), nil
}

func (c *Client) Dispatch(dest types.NetworkID, msg *types.Message, fee FeeAuthorization) (common.Hash, error) {
	var res dispatchResult
	auth := wireFeeAuthorization{Asset: fee.Asset, Amount: (*hexutil.Big)(fee.Amount)}
	err := c.call("relay_dispatch", &res, hexutil.Uint64(dest), encodeMessage(msg), auth)
	if err != nil {
		return common.Hash{}, err
	}
	if res.MessageID == (common.Hash{}) {
		return common.Hash{}, fmt.Errorf("transport returned empty message id")
	}
	return res.MessageID, nil
}

// call tries every configured endpoint in order and stops on the first
// answer. An RPC-level error (bad message, unsupported destination) is
// terminal and is not retried on other endpoints.
func (c *Client) call(method string, out interface{}, params ...interface{}) (err error) {
	for _, url := range c.endpoints {
		rpcClient := jsonrpc.NewClient(url)

		var resp *jsonrpc.RPCResponse
		resp, err = rpcClient.Call(method, params...)
		if err != nil {
			log.Printf("Error calling %s on %s: %s", method, url, err.Error())
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("transport %s: %d %s", method, resp.Error.Code, resp.Error.Message)
		}

		if err = resp.GetObject(out); err != nil {
			return fmt.Errorf("transport %s: cannot decode result: %s", method, err.Error())
		}
		return nil
	}
	if err == nil {
		err = fmt.Errorf("no transport endpoints configured")
	}
	return err
}
