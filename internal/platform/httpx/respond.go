// Package httpx writes the ledger API's JSON responses: report and voucher
// payloads, and RFC7807 problem documents for posting failures.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ProblemDetail is the RFC7807 document returned for every ledger failure.
// Type carries a URN under the engine's problem namespace so clients can
// dispatch on it without parsing the title.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{
		Type:   problemType(title),
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// problemType slugs the title into the ledger problem namespace,
// e.g. "Unprocessable Entity" -> "urn:octane:ledger:problem:unprocessable-entity".
func problemType(title string) string {
	return "urn:octane:ledger:problem:" + strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
