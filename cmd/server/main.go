package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/TokenIQ-X/tokeniq-relay/config"
	"github.com/TokenIQ-X/tokeniq-relay/redis"
	"github.com/TokenIQ-X/tokeniq-relay/relay"
	"github.com/TokenIQ-X/tokeniq-relay/transport"
	"github.com/TokenIQ-X/tokeniq-relay/types"
	"github.com/TokenIQ-X/tokeniq-relay/workers"

	"github.com/ethereum/go-ethereum/common"
)

func main() {
	log.Print("Starting cross-ledger relay")

	f, err := os.OpenFile(fmt.Sprintf("logs/log_%s.txt", time.Now().Format("2006-01-02")), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file for writing: %v", err)
	}
	defer f.Close()

	log.SetOutput(f)

	config.Init()

	// connect to Redis, without persistence do not continue
	redis.Init()

	settlements := make(map[types.SettlementMode]bool)
	for _, name := range config.Config.Relay.SettlementModes {
		mode, ok := types.ParseSettlementMode(name)
		if !ok {
			log.Fatalf("unknown settlement mode in config: %s", name)
		}
		settlements[mode] = true
	}

	rl := relay.New(
		relay.Options{
			LocalNetwork:     types.NetworkID(config.Config.Relay.Network),
			Address:          common.HexToAddress(config.Config.Relay.Address),
			FeeAsset:         common.HexToAddress(config.Config.Relay.FeeAsset),
			NativeAsset:      common.HexToAddress(config.Config.Relay.NativeAsset),
			AdminKey:         config.Config.Relay.AdminKey,
			ReplayProtection: config.Config.Relay.ReplayProtection,
			PayloadEnabled:   config.Config.Relay.PayloadEnabled,
			Settlements:      settlements,
		},
		redis.NewSets(),
		redis.NewBook(),
		transport.NewClient(config.Config.Transport.RPCList, common.HexToAddress(config.Config.Transport.Account)),
		redis.NewJournal(),
		redis.NewSnapshots(),
		relay.NewMetrics(),
	)

	// API and inbound-callback serving HTTP server is the main worker thread;
	// deliveries arrive whenever the transport decides, there is nothing to poll
	workers.Worker_HTTP(rl)
}
