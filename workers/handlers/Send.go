package handlers

import (
	"encoding/json"
	"io"
	"log"
	"math/big"
	"net/http"

	"github.com/TokenIQ-X/tokeniq-relay/types"
)

func Send(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading request body: %s", err.Error())
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req SendRequest
	if err = json.Unmarshal(body, &req); err != nil {
		log.Printf("Error unmarshalling request body: %s\n", err.Error())
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	caller, err := parseAddress(req.Caller)
	if err != nil {
		responseError(w, "caller", "No caller address or invalid address provided", http.StatusBadRequest)
		return
	}

	receiver, err := parseAddress(req.Receiver)
	if err != nil {
		responseError(w, "receiver", "No receiver address or invalid address provided", http.StatusBadRequest)
		return
	}

	asset, err := parseAddress(req.Asset)
	if err != nil {
		responseError(w, "asset", "No asset address or invalid address provided", http.StatusBadRequest)
		return
	}

	amount, ok := parseAmount(req.Amount)
	if !ok {
		responseError(w, "amount", "Amount is not a decimal integer", http.StatusBadRequest)
		return
	}

	settlement, ok := types.ParseSettlementMode(req.Settlement)
	if !ok {
		responseError(w, "settlement", "Settlement must be 'reserve' or 'attached'", http.StatusBadRequest)
		return
	}

	var attached *big.Int
	if settlement == types.SettlementCallerAttachedPayment {
		attached, ok = parseAmount(req.Attached)
		if !ok {
			responseError(w, "attached", "Attached payment is not a decimal integer", http.StatusBadRequest)
			return
		}
	}

	id, err := rl.Send(caller, types.NetworkID(req.Destination), receiver, req.Payload, asset, amount, settlement, attached)
	if err != nil {
		log.Printf("Error sending to network %d: %s", req.Destination, err.Error())
		responseError(w, "", err.Error(), errorStatus(err))
		return
	}

	responseJSON(w, &SendResponse{
		Status:    "ok",
		MessageID: id.Hex(),
	}, http.StatusOK)
}
