// Package relay implements the cross-ledger asset-and-data relay protocol:
// outbound dispatch through the external transport, the asynchronous inbound
// delivery callback, replay protection, allowlisting, and fee settlement.
package relay

import (
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/TokenIQ-X/tokeniq-relay/assetbook"
	"github.com/TokenIQ-X/tokeniq-relay/transport"
	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Options is the variant and identity configuration of one relay instance.
// The three historical protocol variants collapse into the two feature flags
// plus the enabled settlement modes.
type Options struct {
	// LocalNetwork is this ledger's selector, stamped on outbound messages.
	LocalNetwork types.NetworkID
	// Address is the relay's custody account as seen by the transport.
	Address common.Address
	// FeeAsset is the initial reserve-settlement fee asset; reconfigurable
	// through SetFeeAsset.
	FeeAsset common.Address
	// NativeAsset is what callers attach under attached-payment settlement.
	NativeAsset common.Address
	// AdminKey is the administrator capability checked on every admin call.
	AdminKey string

	ReplayProtection bool
	PayloadEnabled   bool
	Settlements      map[types.SettlementMode]bool
}

// Relay is the protocol core. Every public operation runs under one mutex
// and is atomic: failure paths reverse any custody movement they made before
// returning, so observable state never reflects a partial operation.
type Relay struct {
	mu   sync.Mutex
	opts Options

	// current reserve fee asset, admin-mutable
	feeAsset common.Address

	registry  *Registry
	ledger    *Ledger
	book      assetbook.Book
	transport transport.Transport
	journal   Journal
	snapshots SnapshotStore
	metrics   *Metrics
}

func New(opts Options, sets SetStore, book assetbook.Book, tr transport.Transport,
	journal Journal, snapshots SnapshotStore, metrics *Metrics) *Relay {
	if opts.Settlements == nil {
		opts.Settlements = map[types.SettlementMode]bool{
			types.SettlementPrefundedReserve:      true,
			types.SettlementCallerAttachedPayment: true,
		}
	}
	return &Relay{
		opts:      opts,
		feeAsset:  opts.FeeAsset,
		registry:  NewRegistry(sets),
		ledger:    NewLedger(sets),
		book:      book,
		transport: tr,
		journal:   journal,
		snapshots: snapshots,
		metrics:   metrics,
	}
}

// record assigns id and timestamp and appends ev to the audit journal.
// Journal failures are logged, not fatal: the protocol state change already
// holds and events are observability, not consensus.
func (r *Relay) record(ev *types.Event) {
	ev.ID = uuid.New().String()
	ev.TsCreated = time.Now().Unix()
	if err := r.journal.Append(ev); err != nil {
		log.Printf("Error appending audit event %s: %s", ev.Type, err.Error())
	}
	log.Printf("Event %s: %+v", ev.Type, ev)
}

// Address is the relay custody account.
func (r *Relay) Address() common.Address {
	return r.opts.Address
}

// FeeAsset is the current reserve-settlement fee asset.
func (r *Relay) FeeAsset() common.Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feeAsset
}

// HasProcessed reports whether a message id was already applied.
func (r *Relay) HasProcessed(id common.Hash) (bool, error) {
	return r.ledger.HasProcessed(id)
}

// LastReceived is the snapshot of the most recent applied delivery, nil if none.
func (r *Relay) LastReceived() (*types.ReceivedSnapshot, error) {
	return r.snapshots.LastReceived()
}

// Events returns up to limit recent audit events, newest first.
func (r *Relay) Events(limit int) ([]*types.Event, error) {
	return r.journal.Recent(limit)
}

// CustodyBalance is the relay's own holding of asset.
func (r *Relay) CustodyBalance(asset common.Address) (*big.Int, error) {
	return r.book.Balance(r.opts.Address, asset)
}

// Allowlist queries, exposed read-only.

func (r *Relay) IsDestinationAllowed(id types.NetworkID) (bool, error) {
	return r.registry.IsDestinationAllowed(id)
}

func (r *Relay) IsSourceAllowed(id types.NetworkID) (bool, error) {
	return r.registry.IsSourceAllowed(id)
}

func (r *Relay) IsAssetAllowed(asset common.Address) (bool, error) {
	return r.registry.IsAssetAllowed(asset)
}

func (r *Relay) IsSenderAllowed(sender common.Address) (bool, error) {
	return r.registry.IsSenderAllowed(sender)
}

// FundReserve moves amount of the current fee asset from funder into the
// shared prefunded reserve. Anyone may fund; there is no per-caller
// attribution of the pool.
func (r *Relay) FundReserve(funder common.Address, amount *big.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.book.Transfer(funder, r.opts.Address, r.feeAsset, amount)
}
