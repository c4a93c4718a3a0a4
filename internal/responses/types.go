package responses

import "github.com/imrishuroy/valentine-rsvp/internal/validation"

// KeyPrefix namespaces every response record in the key space.
const KeyPrefix = "valentine_response_"

// Answer values.
const (
	AnswerYes   = validation.AnswerYes
	AnswerNo    = validation.AnswerNo
	AnswerMaybe = validation.AnswerMaybe
)

// Record is the stored value of one response.
type Record struct {
	Answer    string `json:"answer"`    // yes | no | maybe
	Message   string `json:"message"`   // may be empty
	Timestamp string `json:"timestamp"` // caller-supplied ISO-8601, stored verbatim
}

// Response pairs a record with the key it is stored under.
type Response struct {
	Key   string `json:"key"`
	Value Record `json:"value"`
}

// Stats tallies answers across all responses.
type Stats struct {
	Total int `json:"total"`
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}

// SubmittedEvent is published after a response is stored.
type SubmittedEvent struct {
	Key       string `json:"key"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}
