package intake

import "github.com/jask/fieldpost/internal/staging"

// NewCallSentinel is the call_id value that asks the server to open a new
// call instead of appending to an existing one. The server replaces it with
// the minted id in the response envelope.
const NewCallSentinel = "NEW_CALL"

// Update is one submission: who is reporting, which call it targets, and the
// narrative text plus staged images to attach. Text rides along even when
// empty; the server keys off field presence, not content.
type Update struct {
	OfficerID string
	CallID    string
	Text      string
	Images    []staging.File
}

// Result is the server's envelope, decoded from the response body no matter
// the HTTP status. Error carries the server's reason when Success is false.
type Result struct {
	Success bool   `json:"success"`
	CallID  string `json:"call_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
