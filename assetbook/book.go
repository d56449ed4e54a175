// Package assetbook keeps per-holder balances of the fungible assets the
// relay can take into custody. Transfers either fully apply or fail with an
// explicit error; there is no silent partial movement.
package assetbook

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
)

type Book interface {
	// Transfer moves amount of asset from one holder to another. It fails
	// with types.ErrTransferFailed if from does not hold enough.
	Transfer(from, to common.Address, asset common.Address, amount *big.Int) error
	// Credit adds amount of asset to holder out of thin air. Used for
	// reserve top-ups and external deposits settled off-book.
	Credit(holder, asset common.Address, amount *big.Int) error
	// Balance reports holder's current balance of asset; zero if never held.
	Balance(holder, asset common.Address) (*big.Int, error)
}

// MemoryBook is the in-process Book. All relay operations are serialized by
// the relay mutex, the book's own lock only guards direct reads.
type MemoryBook struct {
	mu       sync.RWMutex
	balances map[common.Address]map[common.Address]*big.Int
}

func NewMemoryBook() *MemoryBook {
	return &MemoryBook{balances: make(map[common.Address]map[common.Address]*big.Int)}
}

func (b *MemoryBook) Transfer(from, to common.Address, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: bad transfer amount", types.ErrTransferFailed)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	have := b.get(from, asset)
	if have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s of %s, need %s",
			types.ErrTransferFailed, from.Hex(), have.String(), asset.Hex(), amount.String())
	}

	b.set(from, asset, new(big.Int).Sub(have, amount))
	b.set(to, asset, new(big.Int).Add(b.get(to, asset), amount))
	return nil
}

func (b *MemoryBook) Credit(holder, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: bad credit amount", types.ErrTransferFailed)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.set(holder, asset, new(big.Int).Add(b.get(holder, asset), amount))
	return nil
}

func (b *MemoryBook) Balance(holder, asset common.Address) (*big.Int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return new(big.Int).Set(b.get(holder, asset)), nil
}

func (b *MemoryBook) get(holder, asset common.Address) *big.Int {
	if held, ok := b.balances[holder]; ok {
		if bal, ok := held[asset]; ok {
			return bal
		}
	}
	return big.NewInt(0)
}

func (b *MemoryBook) set(holder, asset common.Address, bal *big.Int) {
	held, ok := b.balances[holder]
	if !ok {
		held = make(map[common.Address]*big.Int)
		b.balances[holder] = held
	}
	held[asset] = bal
}
