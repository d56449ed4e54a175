// Package transport speaks to the external message-transport service that
// carries relay messages between networks. The transport owns delivery
// consensus and proofs entirely; the relay only quotes, dispatches, and
// receives the inbound callback over its own HTTP surface.
package transport

import (
	"math/big"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
)

// FeeAuthorization lets the transport pull up to Amount of Asset from the
// relay's custody as payment for one dispatch.
type FeeAuthorization struct {
	Asset  common.Address
	Amount *big.Int
}

type Transport interface {
	// Quote returns the fee the transport charges to dispatch msg to dest.
	// The result is valid only against current transport state and must be
	// re-queried for every send.
	Quote(dest types.NetworkID, msg *types.Message) (*big.Int, error)
	// Dispatch queues msg for cross-network delivery and returns the
	// transport-assigned message id. Fire-and-forget: there is no handle to
	// await or cancel the remote outcome.
	Dispatch(dest types.NetworkID, msg *types.Message, fee FeeAuthorization) (common.Hash, error)
	// Account is the custody account the transport pulls authorized fees into.
	Account() common.Address
}
