package relay

import (
	"fmt"
	"log"
	"math/big"

	"github.com/TokenIQ-X/tokeniq-relay/transport"
	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
)

// Administrative operations. The administrator is an explicit capability
// value checked on every call, not an ambient identity, so multi-admin or
// role-based schemes can be layered on without touching call sites.

func (r *Relay) checkAdmin(key string) error {
	if key == "" || key != r.opts.AdminKey {
		return types.ErrUnauthorizedAdmin
	}
	return nil
}

func (r *Relay) SetDestinationAllowed(key string, id types.NetworkID, allowed bool) error {
	return r.setAllowed(key, SetAllowedDestinations, "destination", networkMember(id), allowed)
}

func (r *Relay) SetSourceAllowed(key string, id types.NetworkID, allowed bool) error {
	return r.setAllowed(key, SetAllowedSources, "source", networkMember(id), allowed)
}

func (r *Relay) SetAssetAllowed(key string, asset common.Address, allowed bool) error {
	return r.setAllowed(key, SetAllowedAssets, "asset", addressMember(asset), allowed)
}

func (r *Relay) SetSenderAllowed(key string, sender common.Address, allowed bool) error {
	return r.setAllowed(key, SetAllowedSenders, "sender", addressMember(sender), allowed)
}

func (r *Relay) setAllowed(key, set, setName, member string, allowed bool) error {
	if err := r.checkAdmin(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.registry.setMember(set, member, allowed); err != nil {
		return fmt.Errorf("allowlist update: %s", err.Error())
	}

	r.record(&types.Event{
		Type:    types.EventAllowlistUpdated,
		Set:     setName,
		Subject: member,
		Allowed: allowed,
	})
	r.metrics.incAdminMutation()
	return nil
}

// SetFeeAsset reconfigures the asset drawn from under reserve settlement.
// Any reserve of the previous asset stays in custody and remains recoverable
// through WithdrawAsset.
func (r *Relay) SetFeeAsset(key string, asset common.Address) error {
	if err := r.checkAdmin(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.feeAsset = asset
	r.record(&types.Event{
		Type:     types.EventFeeAssetUpdated,
		FeeAsset: asset,
	})
	r.metrics.incAdminMutation()
	return nil
}

// SetTransport swaps the transport used for quotes and dispatch. In-flight
// deliveries of the previous transport still arrive through Deliver; nothing
// ties a message to the transport instance that sent it.
func (r *Relay) SetTransport(key string, tr transport.Transport) error {
	if err := r.checkAdmin(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.transport = tr
	r.metrics.incAdminMutation()
	log.Printf("Transport reconfigured, fee account %s", tr.Account().Hex())
	return nil
}

// WithdrawFeeAsset recovers the relay's entire balance of the current fee
// asset to the given address.
func (r *Relay) WithdrawFeeAsset(key string, to common.Address) (*big.Int, error) {
	r.mu.Lock()
	feeAsset := r.feeAsset
	r.mu.Unlock()
	return r.WithdrawAsset(key, feeAsset, to)
}

// WithdrawAsset recovers the relay's entire balance of asset to the given
// address, failing with ErrNothingToWithdraw if the balance is zero.
func (r *Relay) WithdrawAsset(key string, asset common.Address, to common.Address) (*big.Int, error) {
	if err := r.checkAdmin(key); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	balance, err := r.book.Balance(r.opts.Address, asset)
	if err != nil {
		return nil, fmt.Errorf("custody balance check: %s", err.Error())
	}
	if balance.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNothingToWithdraw, asset.Hex())
	}

	if err := r.book.Transfer(r.opts.Address, to, asset, balance); err != nil {
		return nil, err
	}

	r.record(&types.Event{
		Type:      types.EventWithdrawn,
		Asset:     asset,
		Amount:    balance.String(),
		Recipient: to,
	})
	r.metrics.incAdminMutation()

	log.Printf("Withdrew %s of %s to %s", balance.String(), asset.Hex(), to.Hex())
	return balance, nil
}
