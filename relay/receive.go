package relay

import (
	"fmt"
	"log"
	"time"

	"github.com/TokenIQ-X/tokeniq-relay/config"
	"github.com/TokenIQ-X/tokeniq-relay/types"
)

// Deliver is the transport's single inbound entry point, invoked
// asynchronously when a message arrives for this ledger. The transport is
// trusted as the invoker; authorization is the source-network and sender
// allowlists plus replay protection.
//
// The message id is marked processed before custody moves. Keep that order:
// if a recipient-side transfer can trigger a second delivery of the same id,
// the mark is what closes the double-spend window.
func (r *Relay) Deliver(msg *types.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ok, err := r.registry.IsSourceAllowed(msg.SourceNetwork); err != nil {
		return fmt.Errorf("source allowlist check: %s", err.Error())
	} else if !ok {
		return fmt.Errorf("%w: source %s (%d)", types.ErrChainNotAllowed,
			config.NetworkName(msg.SourceNetwork), msg.SourceNetwork)
	}
	if ok, err := r.registry.IsSenderAllowed(msg.Sender); err != nil {
		return fmt.Errorf("sender allowlist check: %s", err.Error())
	} else if !ok {
		return fmt.Errorf("%w: %s", types.ErrSenderNotAllowed, msg.Sender.Hex())
	}

	marked := false
	if r.opts.ReplayProtection {
		seen, err := r.ledger.HasProcessed(msg.ID)
		if err != nil {
			return fmt.Errorf("replay check: %s", err.Error())
		}
		if seen {
			r.metrics.incReplayRejected()
			return fmt.Errorf("%w: %s", types.ErrReplayedMessage, msg.ID.Hex())
		}
		if err := r.ledger.MarkProcessed(msg.ID); err != nil {
			return fmt.Errorf("mark processed: %s", err.Error())
		}
		marked = true
	}

	p, err := DecodeTransferPayload(msg.Payload)
	if err != nil {
		// nothing external happened yet, keep the id replayable
		r.abortDelivery(msg, marked)
		return err
	}
	if p.Amount == nil || p.Amount.Sign() <= 0 {
		r.abortDelivery(msg, marked)
		return types.ErrInvalidAmount
	}

	// the id stays consumed past this point: a disallowed asset burns the
	// message without effect, re-delivery of the same id is never possible
	if ok, err := r.registry.IsAssetAllowed(p.Asset); err != nil {
		r.abortDelivery(msg, marked)
		return fmt.Errorf("asset allowlist check: %s", err.Error())
	} else if !ok {
		return fmt.Errorf("%w: %s", types.ErrTokenNotAllowed, p.Asset.Hex())
	}

	if err := r.book.Transfer(r.opts.Address, p.Recipient, p.Asset, p.Amount); err != nil {
		// custody release failed, the operation never happened
		r.abortDelivery(msg, marked)
		return err
	}

	snap := &types.ReceivedSnapshot{
		MessageID: msg.ID,
		Payload:   msg.Payload,
		Asset:     p.Asset,
		Amount:    p.Amount.String(),
		TsApplied: time.Now().Unix(),
	}
	if r.opts.PayloadEnabled {
		snap.Data = string(p.Data)
	}
	if err := r.snapshots.SetLastReceived(snap); err != nil {
		log.Printf("Error storing last-received snapshot %s: %s", msg.ID.Hex(), err.Error())
	}

	r.record(&types.Event{
		Type:      types.EventDelivered,
		MessageID: msg.ID,
		Network:   msg.SourceNetwork,
		Asset:     p.Asset,
		Amount:    p.Amount.String(),
		Recipient: p.Recipient,
	})
	r.metrics.incDelivered()

	log.Printf("Delivered message %s from %s: %s of %s to %s",
		msg.ID.Hex(), config.NetworkName(msg.SourceNetwork), p.Amount.String(), p.Asset.Hex(), p.Recipient.Hex())

	return nil
}

// abortDelivery reverses the processed mark of a delivery that failed before
// completing, restoring pre-call state.
func (r *Relay) abortDelivery(msg *types.Message, marked bool) {
	if !marked {
		return
	}
	if err := r.ledger.unmark(msg.ID); err != nil {
		log.Printf("Error unmarking aborted delivery %s: %s", msg.ID.Hex(), err.Error())
	}
}
