package config

import "github.com/TokenIQ-X/tokeniq-relay/types"

type Configuration struct {
	// Server config
	Server struct {
		UseSSL    bool   `yaml:"ssl"`
		Port      int    `yaml:"port"`
		RedisPort int    `yaml:"redis_port"`
		RedisHost string `yaml:"redis_host"`
	} `yaml:"server"`
	// Relay protocol config
	Relay struct {
		// important private stuff
		AdminKey string `yaml:"admin_key"`
		// this ledger's network selector, stamped on outbound messages
		Network uint64 `yaml:"network"`
		// custody account of the relay as seen by the transport
		Address string `yaml:"address"`
		// fee asset drawn from under reserve settlement, admin-reconfigurable at runtime
		FeeAsset string `yaml:"fee_asset"`
		// asset callers attach under attached-payment settlement
		NativeAsset string `yaml:"native_asset"`
		// variant selector, see relay.Options
		ReplayProtection bool     `yaml:"replay_protection"`
		PayloadEnabled   bool     `yaml:"payload_enabled"`
		SettlementModes  []string `yaml:"settlement_modes"`
	} `yaml:"relay"`
	// Transport service config
	Transport struct {
		RPCList []string `yaml:"rpc_list"`
		Account string   `yaml:"account"`
	} `yaml:"transport"`
}

var Config Configuration

// Network configs, static per deployment. The selector values are assigned
// by the transport operator and are opaque to the relay.
type NetworkConfig struct {
	Name     string
	Selector types.NetworkID
}

var Networks = map[types.NetworkID]NetworkConfig{
	5009297550715157269: {Name: "Eth", Selector: 5009297550715157269},
	4949039107694359620: {Name: "Arbitrum", Selector: 4949039107694359620},
	3734403246176062136: {Name: "Optimism", Selector: 3734403246176062136},
	11344663589394136015: {Name: "BNB", Selector: 11344663589394136015},
	16015286601757825753: {Name: "EthTestnet", Selector: 16015286601757825753},
}

// NetworkName resolves a selector to its display name for logging.
func NetworkName(id types.NetworkID) string {
	if n, ok := Networks[id]; ok {
		return n.Name
	}
	return "unknown"
}
