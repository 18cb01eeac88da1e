package response

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Status       string      `json:"status"`
	Message      string      `json:"message,omitempty"`
	Data         interface{} `json:"data,omitempty"`
	AttemptsLeft *int        `json:"attempts_left,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status: "success",
		Data:   data,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func Error(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status:  "error",
		Message: msg,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// PolicyError adds the machine-readable remaining attempt budget to an error
// envelope.
func PolicyError(w http.ResponseWriter, status int, msg string, attemptsLeft int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status:       "error",
		Message:      msg,
		AttemptsLeft: &attemptsLeft,
	}
	_ = json.NewEncoder(w).Encode(resp)
}
