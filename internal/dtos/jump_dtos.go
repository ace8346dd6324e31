package dtos

// JumpRequest is the body of POST /api/v1/jumps. The controller decodes the
// body loosely first so wrong JSON types surface as field errors, and this
// struct is the typed view for callers that already trust the shape.
type JumpRequest struct {
	Goals          string  `json:"goals"`
	Challenges     string  `json:"challenges"`
	TurnstileToken *string `json:"turnstileToken,omitempty"`
}

// FormSubmission is a JumpRequest that passed validation. Goals and
// Challenges are already trimmed.
type FormSubmission struct {
	Goals             string
	Challenges        string
	VerificationToken *string
}

// HasToken reports whether the client sent a non-blank bot-check token.
func (f FormSubmission) HasToken() bool {
	return f.VerificationToken != nil && *f.VerificationToken != ""
}

// FieldError is one entry of a validation failure's details array.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	JumpStatusAccepted  = "accepted"
	JumpStatusGenerated = "generated"
)

type JumpResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Plan   string `json:"plan,omitempty"`
}

// JumpValidResponse is the (empty) success body of POST /api/v1/jumps/valid.
type JumpValidResponse struct{}
