package validation

// Accepted answers.
const (
	AnswerYes   = "yes"
	AnswerNo    = "no"
	AnswerMaybe = "maybe"
)

// SubmitResponseRequest is the payload for POST /response
type SubmitResponseRequest struct {
	Answer    string `json:"answer" validate:"required,oneof=yes no maybe"` // yes | no | maybe
	Message   string `json:"message"`                                       // optional, defaults to ""
	Timestamp string `json:"timestamp" validate:"required,isotime"`         // client event time, ISO-8601
}
