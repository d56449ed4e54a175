package relay

import (
	"errors"
	"fmt"
	"log"
	"math/big"

	"github.com/TokenIQ-X/tokeniq-relay/config"
	"github.com/TokenIQ-X/tokeniq-relay/transport"
	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
)

// Send validates, takes custody of the asset, settles the transport fee
// under the requested mode, and hands the message to the transport. It
// returns the transport-assigned message id. Any failure is terminal for
// the call and leaves every balance at its pre-call value; nothing is
// retried here, the caller resubmits.
//
// attached is the fee value accompanying the call under attached-payment
// settlement; it is ignored under reserve settlement.
func (r *Relay) Send(caller common.Address, dest types.NetworkID, receiver common.Address,
	payload []byte, asset common.Address, amount *big.Int,
	settlement types.SettlementMode, attached *big.Int) (common.Hash, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.send(caller, dest, receiver, payload, asset, amount, settlement, attached)
	if err != nil {
		r.metrics.incSendFailure(failureKind(err))
		return common.Hash{}, err
	}
	return id, nil
}

func (r *Relay) send(caller common.Address, dest types.NetworkID, receiver common.Address,
	payload []byte, asset common.Address, amount *big.Int,
	settlement types.SettlementMode, attached *big.Int) (common.Hash, error) {

	if !r.opts.Settlements[settlement] {
		return common.Hash{}, fmt.Errorf("%w: %s", types.ErrSettlementUnsupported, settlement)
	}
	if len(payload) > 0 && !r.opts.PayloadEnabled {
		return common.Hash{}, fmt.Errorf("%w: this relay carries assets only", types.ErrPayloadUnsupported)
	}

	if ok, err := r.registry.IsDestinationAllowed(dest); err != nil {
		return common.Hash{}, fmt.Errorf("destination allowlist check: %s", err.Error())
	} else if !ok {
		return common.Hash{}, fmt.Errorf("%w: destination %s (%d)", types.ErrChainNotAllowed, config.NetworkName(dest), dest)
	}
	if ok, err := r.registry.IsAssetAllowed(asset); err != nil {
		return common.Hash{}, fmt.Errorf("asset allowlist check: %s", err.Error())
	} else if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", types.ErrTokenNotAllowed, asset.Hex())
	}
	if receiver == (common.Address{}) {
		return common.Hash{}, types.ErrInvalidReceiver
	}
	if amount == nil || amount.Sign() <= 0 {
		return common.Hash{}, types.ErrInvalidAmount
	}

	// custody transfer-in; everything after this point must undo it on failure
	if err := r.book.Transfer(caller, r.opts.Address, asset, amount); err != nil {
		return common.Hash{}, err
	}

	body, err := EncodeTransferPayload(&TransferPayload{
		Recipient: receiver,
		Asset:     asset,
		Amount:    amount,
		Data:      payload,
	})
	if err != nil {
		r.refund(caller, asset, amount)
		return common.Hash{}, err
	}

	msg := &types.Message{
		SourceNetwork:      r.opts.LocalNetwork,
		DestinationNetwork: dest,
		Sender:             r.opts.Address,
		Receiver:           receiver,
		Payload:            body,
		AssetTransfers:     []types.AssetAmount{{Asset: asset, Amount: amount}},
		FeeSettlement:      settlement,
	}

	// fee quote is authoritative for this operation only, never cached
	fee, err := r.transport.Quote(dest, msg)
	if err != nil {
		r.refund(caller, asset, amount)
		return common.Hash{}, fmt.Errorf("transport quote: %s", err.Error())
	}

	feeAsset, err := r.settleFee(caller, settlement, fee, attached)
	if err != nil {
		r.refund(caller, asset, amount)
		return common.Hash{}, err
	}

	// authorize the transport to pull the fee, then dispatch; the fee was
	// already moved to the transport account, so a dispatch failure reverses
	// both the fee and the custody transfer-in
	auth := transport.FeeAuthorization{Asset: feeAsset, Amount: fee}
	id, err := r.transport.Dispatch(dest, msg, auth)
	if err != nil {
		r.reverseFee(caller, settlement, feeAsset, fee)
		r.refund(caller, asset, amount)
		return common.Hash{}, fmt.Errorf("transport dispatch: %s", err.Error())
	}

	r.record(&types.Event{
		Type:      types.EventDispatched,
		MessageID: id,
		Network:   dest,
		Asset:     asset,
		Amount:    amount.String(),
		FeeAsset:  feeAsset,
		FeeAmount: fee.String(),
	})
	r.metrics.incDispatched()

	log.Printf("Dispatched message %s to %s: %s of %s, fee %s of %s",
		id.Hex(), config.NetworkName(dest), amount.String(), asset.Hex(), fee.String(), feeAsset.Hex())

	return id, nil
}

// settleFee covers fee under the requested mode and moves it to the
// transport account. On success it returns the fee asset used.
func (r *Relay) settleFee(caller common.Address, settlement types.SettlementMode,
	fee, attached *big.Int) (common.Address, error) {

	switch settlement {
	case types.SettlementPrefundedReserve:
		reserve, err := r.book.Balance(r.opts.Address, r.feeAsset)
		if err != nil {
			return common.Address{}, fmt.Errorf("reserve balance check: %s", err.Error())
		}
		if reserve.Cmp(fee) < 0 {
			return common.Address{}, fmt.Errorf("%w: reserve %s < quote %s",
				types.ErrInsufficientFeeBalance, reserve.String(), fee.String())
		}
		if err := r.book.Transfer(r.opts.Address, r.transport.Account(), r.feeAsset, fee); err != nil {
			return common.Address{}, err
		}
		return r.feeAsset, nil

	case types.SettlementCallerAttachedPayment:
		if attached == nil || attached.Cmp(fee) < 0 {
			have := "0"
			if attached != nil {
				have = attached.String()
			}
			return common.Address{}, fmt.Errorf("%w: attached %s < quote %s",
				types.ErrInsufficientFeeBalance, have, fee.String())
		}
		// pull the full attached value, then refund the excess in the same
		// operation so the caller nets exactly -fee
		if err := r.book.Transfer(caller, r.opts.Address, r.opts.NativeAsset, attached); err != nil {
			return common.Address{}, err
		}
		excess := new(big.Int).Sub(attached, fee)
		if excess.Sign() > 0 {
			if err := r.book.Transfer(r.opts.Address, caller, r.opts.NativeAsset, excess); err != nil {
				r.refund(caller, r.opts.NativeAsset, attached)
				return common.Address{}, err
			}
		}
		if err := r.book.Transfer(r.opts.Address, r.transport.Account(), r.opts.NativeAsset, fee); err != nil {
			r.refund(caller, r.opts.NativeAsset, fee)
			return common.Address{}, err
		}
		return r.opts.NativeAsset, nil
	}

	return common.Address{}, fmt.Errorf("%w: %s", types.ErrSettlementUnsupported, settlement)
}

// reverseFee undoes settleFee after a failed dispatch.
func (r *Relay) reverseFee(caller common.Address, settlement types.SettlementMode,
	feeAsset common.Address, fee *big.Int) {

	switch settlement {
	case types.SettlementPrefundedReserve:
		if err := r.book.Transfer(r.transport.Account(), r.opts.Address, feeAsset, fee); err != nil {
			log.Printf("Error reversing reserve fee %s: %s", fee.String(), err.Error())
		}
	case types.SettlementCallerAttachedPayment:
		if err := r.book.Transfer(r.transport.Account(), caller, feeAsset, fee); err != nil {
			log.Printf("Error reversing attached fee %s: %s", fee.String(), err.Error())
		}
	}
}

// refund reverses an earlier custody transfer-in of the same operation.
func (r *Relay) refund(caller common.Address, asset common.Address, amount *big.Int) {
	if err := r.book.Transfer(r.opts.Address, caller, asset, amount); err != nil {
		log.Printf("Error refunding %s of %s to %s: %s", amount.String(), asset.Hex(), caller.Hex(), err.Error())
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, types.ErrChainNotAllowed):
		return "chain_not_allowed"
	case errors.Is(err, types.ErrTokenNotAllowed):
		return "token_not_allowed"
	case errors.Is(err, types.ErrInvalidReceiver):
		return "invalid_receiver"
	case errors.Is(err, types.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, types.ErrInsufficientFeeBalance):
		return "insufficient_fee"
	case errors.Is(err, types.ErrTransferFailed):
		return "transfer_failed"
	case errors.Is(err, types.ErrSettlementUnsupported):
		return "settlement_unsupported"
	case errors.Is(err, types.ErrPayloadUnsupported):
		return "payload_unsupported"
	}
	return "other"
}
