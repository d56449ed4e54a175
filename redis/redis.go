// Redis persistence for the relay: allowlist and processed-id sets, custody
// balances, the last-received snapshot, and the audit event journal. The
// relay core serializes every operation, so plain read-modify-write against
// one connection per call is sufficient here.
package redis

import (
	"fmt"
	"log"
	"time"

	"github.com/TokenIQ-X/tokeniq-relay/config"

	"github.com/gomodule/redigo/redis"
)

var pool *redis.Pool

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

func Init() {
	redisAddr := fmt.Sprintf("%s:%d", config.Config.Server.RedisHost, config.Config.Server.RedisPort)
	pool = &redis.Pool{
		MaxIdle: 5,
		Dial:    func() (redis.Conn, error) { return redis.Dial("tcp", redisAddr, timeoutDialOptions()...) },
	}
}

// Sets implements the relay's membership store on redis SETs.
type Sets struct{}

func NewSets() *Sets { return &Sets{} }

func (*Sets) Add(set, member string) error {
	conn := pool.Get()
	defer conn.Close()

	_, err := conn.Do("SADD", set, member)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}
	return nil
}

func (*Sets) Remove(set, member string) error {
	conn := pool.Get()
	defer conn.Close()

	_, err := conn.Do("SREM", set, member)
	if err != nil {
		log.Printf("error Redis SREM: %s", err.Error())
		return err
	}
	return nil
}

func (*Sets) Contains(set, member string) (bool, error) {
	conn := pool.Get()
	defer conn.Close()

	ok, err := redis.Bool(conn.Do("SISMEMBER", set, member))
	if err != nil {
		log.Printf("error Redis SISMEMBER: %s", err.Error())
		return false, err
	}
	return ok, nil
}
