package handlers

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/TokenIQ-X/tokeniq-relay/types"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
)

func responseJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func responseError(w http.ResponseWriter, field, message string, code int) {
	responseJSON(w, &APIResponse{
		Status:  "error",
		Field:   field,
		Message: message,
	}, code)
}

// parseAddress validates and parses a hex address field
func parseAddress(raw string) (common.Address, error) {
	addr := common.HexToAddress(raw)
	if err := ethav.Validate(addr.Hex()); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

func parseAmount(raw string) (*big.Int, bool) {
	if raw == "" {
		return nil, false
	}
	return big.NewInt(0).SetString(raw, 10)
}

// errorStatus maps a relay error kind to the HTTP status of the failed call
func errorStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorizedAdmin):
		return http.StatusForbidden
	case errors.Is(err, types.ErrChainNotAllowed),
		errors.Is(err, types.ErrTokenNotAllowed),
		errors.Is(err, types.ErrSenderNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, types.ErrInvalidReceiver),
		errors.Is(err, types.ErrInvalidAmount),
		errors.Is(err, types.ErrSettlementUnsupported),
		errors.Is(err, types.ErrPayloadUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrReplayedMessage):
		return http.StatusConflict
	case errors.Is(err, types.ErrInsufficientFeeBalance),
		errors.Is(err, types.ErrTransferFailed),
		errors.Is(err, types.ErrNothingToWithdraw):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
