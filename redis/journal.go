package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/gomodule/redigo/redis"
)

const (
	eventsKey       = "relay:events"
	lastReceivedKey = "relay:lastreceived"
)

// Journal appends audit events to a redis list, newest first.
type Journal struct{}

func NewJournal() *Journal { return &Journal{} }

func (*Journal) Append(ev *types.Event) error {
	conn := pool.Get()
	defer conn.Close()

	evJSON, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("cannot marshal event to JSON: %s", err.Error())
	}

	_, err = conn.Do("LPUSH", eventsKey, evJSON)
	if err != nil {
		log.Printf("error Redis LPUSH: %s", err.Error())
		return err
	}
	return nil
}

func (*Journal) Recent(limit int) ([]*types.Event, error) {
	conn := pool.Get()
	defer conn.Close()

	if limit <= 0 {
		limit = 100
	}

	raws, err := redis.ByteSlices(conn.Do("LRANGE", eventsKey, 0, limit-1))
	if err != nil {
		log.Printf("error Redis LRANGE: %s", err.Error())
		return nil, err
	}

	events := make([]*types.Event, 0, len(raws))
	for _, raw := range raws {
		var ev types.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, nil
}

// Snapshots persists the last-received delivery record.
type Snapshots struct{}

func NewSnapshots() *Snapshots { return &Snapshots{} }

func (*Snapshots) SetLastReceived(snap *types.ReceivedSnapshot) error {
	conn := pool.Get()
	defer conn.Close()

	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("cannot marshal snapshot to JSON: %s", err.Error())
	}

	_, err = conn.Do("SET", lastReceivedKey, snapJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}
	return nil
}

func (*Snapshots) LastReceived() (*types.ReceivedSnapshot, error) {
	conn := pool.Get()
	defer conn.Close()

	raw, err := redis.Bytes(conn.Do("GET", lastReceivedKey))
	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}
	if err != nil {
		log.Printf("error Redis GET: %s", err.Error())
		return nil, err
	}

	var snap types.ReceivedSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
