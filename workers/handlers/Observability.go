package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
)

func LastReceived(w http.ResponseWriter, r *http.Request) {
	snap, err := rl.LastReceived()
	if err != nil {
		log.Printf("Error reading last-received snapshot: %s", err.Error())
		responseError(w, "", "Cannot read last-received snapshot", http.StatusInternalServerError)
		return
	}
	if snap == nil {
		responseError(w, "", "Nothing received yet", http.StatusNotFound)
		return
	}
	responseJSON(w, snap, http.StatusOK)
}

func Processed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !strings.HasPrefix(id, "0x") || len(id) != 66 {
		responseError(w, "id", "Message id must be a 32-byte hex hash", http.StatusBadRequest)
		return
	}

	processed, err := rl.HasProcessed(common.HexToHash(id))
	if err != nil {
		log.Printf("Error checking processed status of %s: %s", id, err.Error())
		responseError(w, "", "Cannot check processed status", http.StatusInternalServerError)
		return
	}

	responseJSON(w, &ProcessedResponse{
		Status:    "ok",
		MessageID: id,
		Processed: processed,
	}, http.StatusOK)
}

func AllowlistMember(w http.ResponseWriter, r *http.Request) {
	set := chi.URLParam(r, "set")
	subject := chi.URLParam(r, "member")

	var allowed bool
	var err error

	switch set {
	case "destination", "source":
		selector, convErr := strconv.ParseUint(subject, 10, 64)
		if convErr != nil {
			responseError(w, "member", "Network selector is not a decimal integer", http.StatusBadRequest)
			return
		}
		if set == "destination" {
			allowed, err = rl.IsDestinationAllowed(types.NetworkID(selector))
		} else {
			allowed, err = rl.IsSourceAllowed(types.NetworkID(selector))
		}

	case "asset":
		allowed, err = rl.IsAssetAllowed(common.HexToAddress(subject))
	case "sender":
		allowed, err = rl.IsSenderAllowed(common.HexToAddress(subject))

	default:
		responseError(w, "set", "Allowlist set must be destination, source, asset or sender", http.StatusBadRequest)
		return
	}

	if err != nil {
		log.Printf("Error checking %s allowlist: %s", set, err.Error())
		responseError(w, "", "Cannot check allowlist membership", http.StatusInternalServerError)
		return
	}

	responseJSON(w, &AllowlistMemberResponse{
		Status:  "ok",
		Set:     set,
		Subject: subject,
		Allowed: allowed,
	}, http.StatusOK)
}

func CustodyBalance(w http.ResponseWriter, r *http.Request) {
	asset, err := parseAddress(chi.URLParam(r, "asset"))
	if err != nil {
		responseError(w, "asset", "No asset address or invalid address provided", http.StatusBadRequest)
		return
	}

	balance, err := rl.CustodyBalance(asset)
	if err != nil {
		log.Printf("Error reading custody balance of %s: %s", asset.Hex(), err.Error())
		responseError(w, "", "Cannot read custody balance", http.StatusInternalServerError)
		return
	}

	responseJSON(w, &BalanceResponse{
		Status:  "ok",
		Asset:   asset.Hex(),
		Balance: balance.String(),
	}, http.StatusOK)
}

func Events(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			responseError(w, "limit", "Limit is not a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := rl.Events(limit)
	if err != nil {
		log.Printf("Error reading event journal: %s", err.Error())
		responseError(w, "", "Cannot read event journal", http.StatusInternalServerError)
		return
	}

	responseJSON(w, events, http.StatusOK)
}

// FundReserve tops up the shared prefunded fee reserve. Anyone may fund;
// the pool has no per-caller attribution.
func FundReserve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req FundRequest
	if err = json.Unmarshal(body, &req); err != nil {
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	from, err := parseAddress(req.From)
	if err != nil {
		responseError(w, "from", "No funder address or invalid address provided", http.StatusBadRequest)
		return
	}

	amount, ok := parseAmount(req.Amount)
	if !ok {
		responseError(w, "amount", "Amount is not a decimal integer", http.StatusBadRequest)
		return
	}

	if err := rl.FundReserve(from, amount); err != nil {
		log.Printf("Error funding reserve: %s", err.Error())
		responseError(w, "", err.Error(), errorStatus(err))
		return
	}

	responseJSON(w, &APIResponse{Status: "ok"}, http.StatusOK)
}
