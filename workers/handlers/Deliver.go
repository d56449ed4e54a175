package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	"github.com/ethereum/go-ethereum/common"
)

// Deliver is invoked by the transport when a cross-network message arrives
// for this ledger. The transport is trusted as the caller; everything else
// (source network, sender, replay status, asset) is checked by the relay core.
func Deliver(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading request body: %s", err.Error())
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req DeliverRequest
	if err = json.Unmarshal(body, &req); err != nil {
		log.Printf("Error unmarshalling request body: %s\n", err.Error())
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	if req.MessageID == "" {
		responseError(w, "messageId", "No message id provided", http.StatusBadRequest)
		return
	}

	msg := &types.Message{
		ID:            common.HexToHash(req.MessageID),
		SourceNetwork: types.NetworkID(req.Source),
		Sender:        common.HexToAddress(req.Sender),
		Payload:       req.Payload,
	}

	if err := rl.Deliver(msg); err != nil {
		log.Printf("Error delivering message %s: %s", req.MessageID, err.Error())
		responseError(w, "", err.Error(), errorStatus(err))
		return
	}

	responseJSON(w, &APIResponse{Status: "ok"}, http.StatusOK)
}
