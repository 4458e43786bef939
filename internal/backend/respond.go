package backend

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorResponse matches the {"detail": ...} body the client understands.
type errorResponse struct {
	Detail any `json:"detail"`
}

type validationItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type messageResponse struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeInvalid(w http.ResponseWriter, err *InvalidError) {
	items := make([]validationItem, len(err.Fields))
	for i, f := range err.Fields {
		items[i] = validationItem{Loc: []string{"body", f.Field}, Msg: f.Msg, Type: "value_error"}
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: items})
}
