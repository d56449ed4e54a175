package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TokenIQ-X/tokeniq-relay/assetbook"
	"github.com/TokenIQ-X/tokeniq-relay/relay"
	"github.com/TokenIQ-X/tokeniq-relay/transport"
	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminKey = "handlers-admin-key"

var (
	relayAddr     = common.HexToAddress("0x1000000000000000000000000000000000000001")
	transportAddr = common.HexToAddress("0x1000000000000000000000000000000000000002")
	callerAddr    = common.HexToAddress("0x2000000000000000000000000000000000000001")
	receiverAddr  = common.HexToAddress("0x2000000000000000000000000000000000000002")
	senderAddr    = common.HexToAddress("0x2000000000000000000000000000000000000003")
	assetA        = common.HexToAddress("0x3000000000000000000000000000000000000001")
	feeAssetAddr  = common.HexToAddress("0x3000000000000000000000000000000000000002")
)

type stubTransport struct {
	fee *big.Int
	seq uint64
}

func (s *stubTransport) Quote(types.NetworkID, *types.Message) (*big.Int, error) {
	return new(big.Int).Set(s.fee), nil
}

func (s *stubTransport) Dispatch(_ types.NetworkID, msg *types.Message, _ transport.FeeAuthorization) (common.Hash, error) {
	s.seq++
	return crypto.Keccak256Hash(msg.Payload, []byte{byte(s.seq)}), nil
}

func (s *stubTransport) Account() common.Address {
	return transportAddr
}

func newTestRouter(t *testing.T) (*chi.Mux, *assetbook.MemoryBook) {
	t.Helper()

	book := assetbook.NewMemoryBook()
	rl := relay.New(
		relay.Options{
			LocalNetwork:     types.NetworkID(1),
			Address:          relayAddr,
			FeeAsset:         feeAssetAddr,
			NativeAsset:      feeAssetAddr,
			AdminKey:         testAdminKey,
			ReplayProtection: true,
			PayloadEnabled:   true,
		},
		relay.NewMemorySetStore(),
		book,
		&stubTransport{fee: big.NewInt(5)},
		relay.NewMemoryJournal(),
		relay.NewMemorySnapshotStore(),
		nil,
	)
	Init(rl)

	r := chi.NewRouter()
	r.Post("/send", Send)
	r.Post("/deliver", Deliver)
	r.Post("/admin/allowlist/{set}", SetAllowlist)
	r.Post("/admin/withdraw", Withdraw)
	r.Get("/processed/{id}", Processed)
	r.Get("/balance/{asset}", CustodyBalance)
	return r, book
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body interface{}, adminKey string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if adminKey != "" {
		req.Header.Set("X-Admin-Key", adminKey)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func allow(t *testing.T, router *chi.Mux, set, subject string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/admin/allowlist/"+set,
		&AllowlistRequest{Subject: subject, Allowed: true}, testAdminKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSendEndpoint(t *testing.T) {
	router, book := newTestRouter(t)
	allow(t, router, "destination", "7")
	allow(t, router, "asset", assetA.Hex())
	require.NoError(t, book.Credit(callerAddr, assetA, big.NewInt(100)))
	require.NoError(t, book.Credit(relayAddr, feeAssetAddr, big.NewInt(50)))

	rec := doJSON(t, router, http.MethodPost, "/send", &SendRequest{
		Caller:      callerAddr.Hex(),
		Destination: 7,
		Receiver:    receiverAddr.Hex(),
		Asset:       assetA.Hex(),
		Amount:      "100",
		Settlement:  "reserve",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.MessageID, 66)
}

func TestSendEndpointDisallowedDestination(t *testing.T) {
	router, book := newTestRouter(t)
	allow(t, router, "asset", assetA.Hex())
	require.NoError(t, book.Credit(callerAddr, assetA, big.NewInt(100)))

	rec := doJSON(t, router, http.MethodPost, "/send", &SendRequest{
		Caller:      callerAddr.Hex(),
		Destination: 7,
		Receiver:    receiverAddr.Hex(),
		Asset:       assetA.Hex(),
		Amount:      "100",
		Settlement:  "reserve",
	}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeliverEndpointAndReplay(t *testing.T) {
	router, book := newTestRouter(t)
	allow(t, router, "source", "9")
	allow(t, router, "sender", senderAddr.Hex())
	allow(t, router, "asset", assetA.Hex())
	require.NoError(t, book.Credit(relayAddr, assetA, big.NewInt(50)))

	body, err := relay.EncodeTransferPayload(&relay.TransferPayload{
		Recipient: receiverAddr,
		Asset:     assetA,
		Amount:    big.NewInt(50),
	})
	require.NoError(t, err)

	id := crypto.Keccak256Hash([]byte("http-delivery"))
	req := &DeliverRequest{
		MessageID: id.Hex(),
		Source:    9,
		Sender:    senderAddr.Hex(),
		Payload:   body,
	}

	rec := doJSON(t, router, http.MethodPost, "/deliver", req, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// processed status is exposed read-only
	rec = doJSON(t, router, http.MethodGet, "/processed/"+id.Hex(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status ProcessedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Processed)

	// replaying the same id conflicts
	rec = doJSON(t, router, http.MethodPost, "/deliver", req, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWithdrawEndpointRequiresAdminKey(t *testing.T) {
	router, book := newTestRouter(t)
	require.NoError(t, book.Credit(relayAddr, assetA, big.NewInt(10)))

	body := &WithdrawRequest{Asset: assetA.Hex(), To: receiverAddr.Hex()}

	rec := doJSON(t, router, http.MethodPost, "/admin/withdraw", body, "wrong")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/admin/withdraw", body, testAdminKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp WithdrawResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "10", resp.Amount)

	// the custody balance endpoint reflects the recovery
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/balance/%s", assetA.Hex()), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bal BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bal))
	assert.Equal(t, "0", bal.Balance)
}
