package relay

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"testing"

	"github.com/TokenIQ-X/tokeniq-relay/assetbook"
	"github.com/TokenIQ-X/tokeniq-relay/transport"
	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	relayAddr     = common.HexToAddress("0x1000000000000000000000000000000000000001")
	transportAddr = common.HexToAddress("0x1000000000000000000000000000000000000002")
	callerAddr    = common.HexToAddress("0x2000000000000000000000000000000000000001")
	receiverAddr  = common.HexToAddress("0x2000000000000000000000000000000000000002")
	senderAddr    = common.HexToAddress("0x2000000000000000000000000000000000000003")
	assetA        = common.HexToAddress("0x3000000000000000000000000000000000000001")
	feeAssetAddr  = common.HexToAddress("0x3000000000000000000000000000000000000002")
	nativeAsset   = common.HexToAddress("0x3000000000000000000000000000000000000003")

	destNet   = types.NetworkID(4949039107694359620)
	sourceNet = types.NetworkID(3734403246176062136)
	localNet  = types.NetworkID(5009297550715157269)
)

const adminKey = "test-admin-key"

type dispatchCall struct {
	dest types.NetworkID
	msg  *types.Message
	fee  transport.FeeAuthorization
}

// mockTransport quotes a fixed fee and derives message ids from a counter.
type mockTransport struct {
	fee         *big.Int
	quoteErr    error
	dispatchErr error
	dispatches  []dispatchCall
	seq         uint64
}

func (m *mockTransport) Quote(dest types.NetworkID, msg *types.Message) (*big.Int, error) {
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return new(big.Int).Set(m.fee), nil
}

func (m *mockTransport) Dispatch(dest types.NetworkID, msg *types.Message, fee transport.FeeAuthorization) (common.Hash, error) {
	if m.dispatchErr != nil {
		return common.Hash{}, m.dispatchErr
	}
	m.seq++
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], m.seq)
	id := crypto.Keccak256Hash(msg.Payload, seq[:])
	m.dispatches = append(m.dispatches, dispatchCall{dest: dest, msg: msg, fee: fee})
	return id, nil
}

func (m *mockTransport) Account() common.Address {
	return transportAddr
}

type fixture struct {
	relay   *Relay
	book    *assetbook.MemoryBook
	tr      *mockTransport
	journal *MemoryJournal
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()

	opts := Options{
		LocalNetwork:     localNet,
		Address:          relayAddr,
		FeeAsset:         feeAssetAddr,
		NativeAsset:      nativeAsset,
		AdminKey:         adminKey,
		ReplayProtection: true,
		PayloadEnabled:   true,
	}
	for _, m := range mutate {
		m(&opts)
	}

	book := assetbook.NewMemoryBook()
	tr := &mockTransport{fee: big.NewInt(7)}
	journal := NewMemoryJournal()

	rl := New(opts, NewMemorySetStore(), book, tr, journal, NewMemorySnapshotStore(), nil)
	return &fixture{relay: rl, book: book, tr: tr, journal: journal}
}

// allowOutbound allowlists the usual destination and asset.
func (f *fixture) allowOutbound(t *testing.T) {
	t.Helper()
	require.NoError(t, f.relay.SetDestinationAllowed(adminKey, destNet, true))
	require.NoError(t, f.relay.SetAssetAllowed(adminKey, assetA, true))
}

// allowInbound allowlists the usual source, sender and asset.
func (f *fixture) allowInbound(t *testing.T) {
	t.Helper()
	require.NoError(t, f.relay.SetSourceAllowed(adminKey, sourceNet, true))
	require.NoError(t, f.relay.SetSenderAllowed(adminKey, senderAddr, true))
	require.NoError(t, f.relay.SetAssetAllowed(adminKey, assetA, true))
}

func (f *fixture) balance(t *testing.T, holder, asset common.Address) *big.Int {
	t.Helper()
	bal, err := f.book.Balance(holder, asset)
	require.NoError(t, err)
	return bal
}

func (f *fixture) lastEvent(t *testing.T) *types.Event {
	t.Helper()
	events, err := f.journal.Recent(1)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	return events[0]
}

// inboundMessage builds a delivered message carrying amount of assetA for
// receiverAddr, with a unique id per n.
func inboundMessage(t *testing.T, n int, amount int64) *types.Message {
	t.Helper()
	body, err := EncodeTransferPayload(&TransferPayload{
		Recipient: receiverAddr,
		Asset:     assetA,
		Amount:    big.NewInt(amount),
		Data:      []byte("hello"),
	})
	require.NoError(t, err)
	return &types.Message{
		ID:            crypto.Keccak256Hash([]byte(fmt.Sprintf("inbound-%d", n))),
		SourceNetwork: sourceNet,
		Sender:        senderAddr,
		Payload:       body,
	}
}
