package redis

import (
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gomodule/redigo/redis"
)

// Book keeps per-holder asset balances in redis hashes, one hash per holder,
// amounts as decimal strings to keep full big.Int precision.
type Book struct{}

func NewBook() *Book { return &Book{} }

func holderKey(holder common.Address) string {
	return fmt.Sprintf("relay:balances:%s", strings.ToLower(holder.Hex()))
}

func assetField(asset common.Address) string {
	return strings.ToLower(asset.Hex())
}

func (b *Book) Balance(holder, asset common.Address) (*big.Int, error) {
	conn := pool.Get()
	defer conn.Close()

	return balance(conn, holder, asset)
}

func balance(conn redis.Conn, holder, asset common.Address) (*big.Int, error) {
	raw, err := redis.String(conn.Do("HGET", holderKey(holder), assetField(asset)))
	if errors.Is(err, redis.ErrNil) {
		return big.NewInt(0), nil
	}
	if err != nil {
		log.Printf("error Redis HGET: %s", err.Error())
		return nil, err
	}

	bal, ok := big.NewInt(0).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt balance record for %s:%s", holder.Hex(), asset.Hex())
	}
	return bal, nil
}

func setBalance(conn redis.Conn, holder, asset common.Address, bal *big.Int) error {
	_, err := conn.Do("HSET", holderKey(holder), assetField(asset), bal.String())
	if err != nil {
		log.Printf("error Redis HSET: %s", err.Error())
		return err
	}
	return nil
}

func (b *Book) Transfer(from, to common.Address, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: bad transfer amount", types.ErrTransferFailed)
	}

	conn := pool.Get()
	defer conn.Close()

	have, err := balance(conn, from, asset)
	if err != nil {
		return err
	}
	if have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s of %s, need %s",
			types.ErrTransferFailed, from.Hex(), have.String(), asset.Hex(), amount.String())
	}

	toBal, err := balance(conn, to, asset)
	if err != nil {
		return err
	}

	if err := setBalance(conn, from, asset, big.NewInt(0).Sub(have, amount)); err != nil {
		return err
	}
	return setBalance(conn, to, asset, big.NewInt(0).Add(toBal, amount))
}

func (b *Book) Credit(holder, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: bad credit amount", types.ErrTransferFailed)
	}

	conn := pool.Get()
	defer conn.Close()

	have, err := balance(conn, holder, asset)
	if err != nil {
		return err
	}
	return setBalance(conn, holder, asset, big.NewInt(0).Add(have, amount))
}
