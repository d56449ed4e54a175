package relay

import (
	"github.com/ethereum/go-ethereum/common"
)

// Ledger is the append-only set of delivered message ids, the relay's sole
// replay-protection mechanism. It never expires entries, so it grows with
// all-time inbound volume.
type Ledger struct {
	sets SetStore
}

func NewLedger(sets SetStore) *Ledger {
	return &Ledger{sets: sets}
}

func (l *Ledger) HasProcessed(id common.Hash) (bool, error) {
	return l.sets.Contains(SetProcessedMessages, id.Hex())
}

// MarkProcessed inserts id; marking an already-marked id is a no-op.
func (l *Ledger) MarkProcessed(id common.Hash) error {
	return l.sets.Add(SetProcessedMessages, id.Hex())
}

// unmark reverses a MarkProcessed made earlier in the same aborted delivery.
// No admin or external path removes entries; a completed delivery's mark is
// permanent.
func (l *Ledger) unmark(id common.Hash) error {
	return l.sets.Remove(SetProcessedMessages, id.Hex())
}
