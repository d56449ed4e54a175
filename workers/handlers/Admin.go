package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/TokenIQ-X/tokeniq-relay/transport"
	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/go-chi/chi"
)

func adminKey(r *http.Request) string {
	return r.Header.Get("X-Admin-Key")
}

// SetAllowlist mutates one of the four allowlist sets. The {set} route
// parameter is destination, source, asset or sender; networks go as decimal
// selectors, assets and senders as hex addresses.
func SetAllowlist(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req AllowlistRequest
	if err = json.Unmarshal(body, &req); err != nil {
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	set := chi.URLParam(r, "set")

	switch set {
	case "destination", "source":
		selector, convErr := strconv.ParseUint(req.Subject, 10, 64)
		if convErr != nil {
			responseError(w, "subject", "Network selector is not a decimal integer", http.StatusBadRequest)
			return
		}
		if set == "destination" {
			err = rl.SetDestinationAllowed(adminKey(r), types.NetworkID(selector), req.Allowed)
		} else {
			err = rl.SetSourceAllowed(adminKey(r), types.NetworkID(selector), req.Allowed)
		}

	case "asset", "sender":
		addr, convErr := parseAddress(req.Subject)
		if convErr != nil {
			responseError(w, "subject", "No address or invalid address provided", http.StatusBadRequest)
			return
		}
		if set == "asset" {
			err = rl.SetAssetAllowed(adminKey(r), addr, req.Allowed)
		} else {
			err = rl.SetSenderAllowed(adminKey(r), addr, req.Allowed)
		}

	default:
		responseError(w, "set", "Allowlist set must be destination, source, asset or sender", http.StatusBadRequest)
		return
	}

	if err != nil {
		log.Printf("Error updating %s allowlist: %s", set, err.Error())
		responseError(w, "", err.Error(), errorStatus(err))
		return
	}

	responseJSON(w, &APIResponse{Status: "ok"}, http.StatusOK)
}

func SetFeeAsset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req FeeAssetRequest
	if err = json.Unmarshal(body, &req); err != nil {
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	asset, err := parseAddress(req.Asset)
	if err != nil {
		responseError(w, "asset", "No asset address or invalid address provided", http.StatusBadRequest)
		return
	}

	if err := rl.SetFeeAsset(adminKey(r), asset); err != nil {
		log.Printf("Error setting fee asset: %s", err.Error())
		responseError(w, "", err.Error(), errorStatus(err))
		return
	}

	responseJSON(w, &APIResponse{Status: "ok"}, http.StatusOK)
}

// SetTransport reconfigures the transport endpoint list and fee account.
func SetTransport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req TransportRequest
	if err = json.Unmarshal(body, &req); err != nil {
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	if len(req.RPCList) == 0 {
		responseError(w, "rpcList", "No transport endpoints provided", http.StatusBadRequest)
		return
	}

	account, err := parseAddress(req.Account)
	if err != nil {
		responseError(w, "account", "No transport account or invalid address provided", http.StatusBadRequest)
		return
	}

	if err := rl.SetTransport(adminKey(r), transport.NewClient(req.RPCList, account)); err != nil {
		log.Printf("Error reconfiguring transport: %s", err.Error())
		responseError(w, "", err.Error(), errorStatus(err))
		return
	}

	responseJSON(w, &APIResponse{Status: "ok"}, http.StatusOK)
}

// Withdraw recovers the relay's entire balance of one asset to the given
// address. An empty asset field means the current fee asset.
func Withdraw(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req WithdrawRequest
	if err = json.Unmarshal(body, &req); err != nil {
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	to, err := parseAddress(req.To)
	if err != nil {
		responseError(w, "to", "No recipient address or invalid address provided", http.StatusBadRequest)
		return
	}

	asset := rl.FeeAsset()
	if req.Asset != "" {
		asset, err = parseAddress(req.Asset)
		if err != nil {
			responseError(w, "asset", "Invalid asset address provided", http.StatusBadRequest)
			return
		}
	}

	amount, err := rl.WithdrawAsset(adminKey(r), asset, to)
	if err != nil {
		log.Printf("Error withdrawing %s: %s", asset.Hex(), err.Error())
		responseError(w, "", err.Error(), errorStatus(err))
		return
	}

	responseJSON(w, &WithdrawResponse{
		Status: "ok",
		Asset:  asset.Hex(),
		Amount: amount.String(),
	}, http.StatusOK)
}
