package relay

import (
	"sync"

	"github.com/TokenIQ-X/tokeniq-relay/types"
)

// Membership sets kept by the relay. The same names are used as redis set
// keys by the redis-backed store.
const (
	SetAllowedDestinations = "relay:allow:destination"
	SetAllowedSources      = "relay:allow:source"
	SetAllowedAssets       = "relay:allow:asset"
	SetAllowedSenders      = "relay:allow:sender"
	SetProcessedMessages   = "relay:processed"
)

// SetStore is binary membership over named sets. A missing member is
// implicitly absent; there is no metadata and no ordering.
type SetStore interface {
	Add(set, member string) error
	Remove(set, member string) error
	Contains(set, member string) (bool, error)
}

// SnapshotStore keeps the last successfully applied inbound delivery.
type SnapshotStore interface {
	SetLastReceived(snap *types.ReceivedSnapshot) error
	// LastReceived returns nil when nothing has been delivered yet.
	LastReceived() (*types.ReceivedSnapshot, error)
}

// Journal is the append-only audit event log.
type Journal interface {
	Append(ev *types.Event) error
	// Recent returns up to limit events, newest first.
	Recent(limit int) ([]*types.Event, error)
}

type MemorySetStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

func NewMemorySetStore() *MemorySetStore {
	return &MemorySetStore{sets: make(map[string]map[string]struct{})}
}

func (s *MemorySetStore) Add(set, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.sets[set]
	if !ok {
		members = make(map[string]struct{})
		s.sets[set] = members
	}
	members[member] = struct{}{}
	return nil
}

func (s *MemorySetStore) Remove(set, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[set], member)
	return nil
}

func (s *MemorySetStore) Contains(set, member string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sets[set][member]
	return ok, nil
}

type MemorySnapshotStore struct {
	mu   sync.RWMutex
	last *types.ReceivedSnapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) SetLastReceived(snap *types.ReceivedSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	return nil
}

func (s *MemorySnapshotStore) LastReceived() (*types.ReceivedSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, nil
}

type MemoryJournal struct {
	mu     sync.RWMutex
	events []*types.Event
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Append(ev *types.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
	return nil
}

func (j *MemoryJournal) Recent(limit int) ([]*types.Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if limit <= 0 || limit > len(j.events) {
		limit = len(j.events)
	}
	out := make([]*types.Event, 0, limit)
	for i := len(j.events) - 1; i >= len(j.events)-limit; i-- {
		out = append(out, j.events[i])
	}
	return out, nil
}
