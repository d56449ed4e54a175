package handlers

import (
	"net/http"
)

// prev. bridge implementation compatibility
func State(w http.ResponseWriter, r *http.Request) {
	responseJSON(w, &APIResponse{
		Status: "ok",
	}, http.StatusOK)
}
