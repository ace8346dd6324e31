package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jumpinai/intake-service/internal/dtos"
)

const (
	MinJumpFieldLength = 10
	MaxJumpFieldLength = 2000
)

const (
	fieldGoals      = "goals"
	fieldChallenges = "challenges"
)

// jumpFields is validated after trimming. validator counts runes for
// string min/max, so lengths are in Unicode code points.
type jumpFields struct {
	Goals      string `validate:"min=10,max=2000"`
	Challenges string `validate:"min=10,max=2000"`
}

var fieldKeys = map[string]string{
	"Goals":      fieldGoals,
	"Challenges": fieldChallenges,
}

var validate = validator.New()

// ValidationError lists every field that failed, goals before challenges.
// Validation is fail-complete: a bad goals value never hides a bad
// challenges value.
type ValidationError struct {
	Errors []dtos.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// FieldMessage returns the message reported for field, if any.
func (e *ValidationError) FieldMessage(field string) (string, bool) {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// ValidateJumpPayload validates a loosely decoded JSON body. Values that are
// missing or not strings produce a type error for that field; the other
// field is still checked.
func ValidateJumpPayload(raw map[string]any) (*dtos.FormSubmission, error) {
	var typeErrs []dtos.FieldError

	goals, fe := stringField(raw, fieldGoals)
	if fe != nil {
		typeErrs = append(typeErrs, *fe)
	}
	challenges, fe := stringField(raw, fieldChallenges)
	if fe != nil {
		typeErrs = append(typeErrs, *fe)
	}

	// The token is optional; anything but a string is treated as absent.
	var token *string
	if t, ok := raw["turnstileToken"].(string); ok {
		token = &t
	}

	return validateFields(goals, challenges, token, typeErrs)
}

// ValidateJumpRequest is the typed counterpart of ValidateJumpPayload.
func ValidateJumpRequest(req dtos.JumpRequest) (*dtos.FormSubmission, error) {
	return validateFields(req.Goals, req.Challenges, req.TurnstileToken, nil)
}

func validateFields(goals, challenges string, token *string, typeErrs []dtos.FieldError) (*dtos.FormSubmission, error) {
	fields := jumpFields{
		Goals:      strings.TrimSpace(goals),
		Challenges: strings.TrimSpace(challenges),
	}

	skip := make(map[string]bool, len(typeErrs))
	for _, te := range typeErrs {
		skip[te.Field] = true
	}

	var lengthErrs []dtos.FieldError
	if err := validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, v := range verrs {
			key := fieldKeys[v.Field()]
			if skip[key] {
				continue
			}
			lengthErrs = append(lengthErrs, dtos.FieldError{Field: key, Message: lengthMessage(v)})
		}
	}

	all := mergeInFieldOrder(typeErrs, lengthErrs)
	if len(all) > 0 {
		return nil, &ValidationError{Errors: all}
	}

	if token != nil {
		t := strings.TrimSpace(*token)
		token = &t
	}

	return &dtos.FormSubmission{
		Goals:             fields.Goals,
		Challenges:        fields.Challenges,
		VerificationToken: token,
	}, nil
}

func lengthMessage(v validator.FieldError) string {
	label := v.Field()
	switch v.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %d characters", label, MinJumpFieldLength)
	case "max":
		return fmt.Sprintf("%s must be less than %d characters", label, MaxJumpFieldLength)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func mergeInFieldOrder(groups ...[]dtos.FieldError) []dtos.FieldError {
	var out []dtos.FieldError
	for _, field := range []string{fieldGoals, fieldChallenges} {
		for _, g := range groups {
			for _, fe := range g {
				if fe.Field == field {
					out = append(out, fe)
				}
			}
		}
	}
	return out
}

func stringField(raw map[string]any, key string) (string, *dtos.FieldError) {
	v, ok := raw[key]
	if !ok {
		return "", &dtos.FieldError{Field: key, Message: "Required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &dtos.FieldError{Field: key, Message: "Expected string, received " + jsonTypeName(v)}
	}
	return s, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
