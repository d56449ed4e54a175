package relay

import (
	"strconv"
	"strings"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
)

// Registry answers the four independent allowlist membership questions.
// Everything starts disallowed; mutation happens only through the relay's
// admin operations.
type Registry struct {
	sets SetStore
}

func NewRegistry(sets SetStore) *Registry {
	return &Registry{sets: sets}
}

func networkMember(id types.NetworkID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// addresses go in lowercased to avoid mixed-case lookup misses
func addressMember(a common.Address) string {
	return strings.ToLower(a.Hex())
}

func (r *Registry) IsDestinationAllowed(id types.NetworkID) (bool, error) {
	return r.sets.Contains(SetAllowedDestinations, networkMember(id))
}

func (r *Registry) IsSourceAllowed(id types.NetworkID) (bool, error) {
	return r.sets.Contains(SetAllowedSources, networkMember(id))
}

func (r *Registry) IsAssetAllowed(asset common.Address) (bool, error) {
	return r.sets.Contains(SetAllowedAssets, addressMember(asset))
}

func (r *Registry) IsSenderAllowed(sender common.Address) (bool, error) {
	return r.sets.Contains(SetAllowedSenders, addressMember(sender))
}

func (r *Registry) setMember(set, member string, allowed bool) error {
	if allowed {
		return r.sets.Add(set, member)
	}
	return r.sets.Remove(set, member)
}
