package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type QuotaExceededError struct {
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Feature  string     `json:"feature"`
	ResetsAt *time.Time `json:"resets_at,omitempty"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
