package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jumpinai/intake-service/internal/dtos"
)

const (
	validGoals      = "Grow my small bakery business into a regional chain"
	validChallenges = "Limited marketing budget and no online presence"
)

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestValidateJumpPayloadScenarios(t *testing.T) {
	t.Run("well-formed bakery submission passes", func(t *testing.T) {
		sub, err := ValidateJumpPayload(map[string]any{
			"goals":      validGoals,
			"challenges": validChallenges,
		})
		require.NoError(t, err)
		assert.Equal(t, validGoals, sub.Goals)
		assert.Equal(t, validChallenges, sub.Challenges)
		assert.False(t, sub.HasToken())
	})

	t.Run("short goals reports only goals", func(t *testing.T) {
		_, err := ValidateJumpPayload(map[string]any{
			"goals":      "short",
			"challenges": validChallenges,
		})
		verr := requireValidationError(t, err)
		require.Len(t, verr.Errors, 1)
		assert.Equal(t, dtos.FieldError{Field: "goals", Message: "Goals must be at least 10 characters"}, verr.Errors[0])
		_, hasChallenges := verr.FieldMessage("challenges")
		assert.False(t, hasChallenges)
	})

	t.Run("both fields invalid are both reported in order", func(t *testing.T) {
		_, err := ValidateJumpPayload(map[string]any{
			"goals":      strings.Repeat("g", 2001),
			"challenges": "tiny",
		})
		verr := requireValidationError(t, err)
		require.Len(t, verr.Errors, 2)
		assert.Equal(t, "goals", verr.Errors[0].Field)
		assert.Equal(t, "Goals must be less than 2000 characters", verr.Errors[0].Message)
		assert.Equal(t, "challenges", verr.Errors[1].Field)
		assert.Equal(t, "Challenges must be at least 10 characters", verr.Errors[1].Message)
		assert.Equal(t,
			"Goals must be less than 2000 characters; Challenges must be at least 10 characters",
			verr.Error(),
		)
	})
}

func TestValidateJumpPayloadBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		length  int
		wantMsg string
	}{
		{"9 fails", 9, "must be at least 10 characters"},
		{"10 passes", 10, ""},
		{"2000 passes", 2000, ""},
		{"2001 fails", 2001, "must be less than 2000 characters"},
	}

	for _, field := range []string{"goals", "challenges"} {
		for _, tc := range cases {
			t.Run(field+" "+tc.name, func(t *testing.T) {
				raw := map[string]any{"goals": validGoals, "challenges": validChallenges}
				raw[field] = "  " + strings.Repeat("x", tc.length) + "\n\t"

				sub, err := ValidateJumpPayload(raw)
				if tc.wantMsg == "" {
					require.NoError(t, err)
					require.NotNil(t, sub)
					return
				}
				verr := requireValidationError(t, err)
				msg, ok := verr.FieldMessage(field)
				require.True(t, ok)
				assert.Contains(t, msg, tc.wantMsg)
				assert.Len(t, verr.Errors, 1)
			})
		}
	}
}

func TestValidateJumpPayloadTrimsBeforeMeasuring(t *testing.T) {
	t.Run("padding does not count toward the minimum", func(t *testing.T) {
		_, err := ValidateJumpPayload(map[string]any{
			"goals":      "   a   ",
			"challenges": validChallenges,
		})
		verr := requireValidationError(t, err)
		msg, _ := verr.FieldMessage("goals")
		assert.Equal(t, "Goals must be at least 10 characters", msg)
	})

	t.Run("whitespace-only input of any length fails", func(t *testing.T) {
		_, err := ValidateJumpPayload(map[string]any{
			"goals":      validGoals,
			"challenges": strings.Repeat(" ", 3000),
		})
		verr := requireValidationError(t, err)
		msg, _ := verr.FieldMessage("challenges")
		assert.Equal(t, "Challenges must be at least 10 characters", msg)
	})

	t.Run("padding does not count toward the maximum", func(t *testing.T) {
		sub, err := ValidateJumpPayload(map[string]any{
			"goals":      strings.Repeat(" ", 50) + strings.Repeat("y", 2000) + strings.Repeat(" ", 50),
			"challenges": validChallenges,
		})
		require.NoError(t, err)
		assert.Len(t, sub.Goals, 2000)
	})

	t.Run("validated values come back trimmed", func(t *testing.T) {
		sub, err := ValidateJumpPayload(map[string]any{
			"goals":      "\n  " + validGoals + "  ",
			"challenges": validChallenges + "\t",
		})
		require.NoError(t, err)
		assert.Equal(t, validGoals, sub.Goals)
		assert.Equal(t, validChallenges, sub.Challenges)
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		sub, err := ValidateJumpPayload(map[string]any{
			"goals":      strings.Repeat("é", 10),
			"challenges": strings.Repeat("🥐", 2000),
		})
		require.NoError(t, err)
		assert.NotNil(t, sub)
	})
}

func TestValidateJumpPayloadTypeMismatch(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"number", float64(42), "Expected string, received number"},
		{"null", nil, "Expected string, received null"},
		{"boolean", true, "Expected string, received boolean"},
		{"array", []any{"a"}, "Expected string, received array"},
		{"object", map[string]any{"a": "b"}, "Expected string, received object"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateJumpPayload(map[string]any{
				"goals":      tc.value,
				"challenges": validChallenges,
			})
			verr := requireValidationError(t, err)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, dtos.FieldError{Field: "goals", Message: tc.want}, verr.Errors[0])
		})
	}

	t.Run("missing fields are required", func(t *testing.T) {
		_, err := ValidateJumpPayload(map[string]any{})
		verr := requireValidationError(t, err)
		assert.Equal(t, []dtos.FieldError{
			{Field: "goals", Message: "Required"},
			{Field: "challenges", Message: "Required"},
		}, verr.Errors)
	})

	t.Run("type error on one field still checks the other", func(t *testing.T) {
		_, err := ValidateJumpPayload(map[string]any{
			"goals":      12,
			"challenges": "short",
		})
		verr := requireValidationError(t, err)
		assert.Equal(t, []dtos.FieldError{
			{Field: "goals", Message: "Expected string, received number"},
			{Field: "challenges", Message: "Challenges must be at least 10 characters"},
		}, verr.Errors)
	})
}

func TestValidateJumpPayloadToken(t *testing.T) {
	sub, err := ValidateJumpPayload(map[string]any{
		"goals":          validGoals,
		"challenges":     validChallenges,
		"turnstileToken": " 0.abc-token ",
	})
	require.NoError(t, err)
	require.True(t, sub.HasToken())
	assert.Equal(t, "0.abc-token", *sub.VerificationToken)

	sub, err = ValidateJumpPayload(map[string]any{
		"goals":          validGoals,
		"challenges":     validChallenges,
		"turnstileToken": 1234,
	})
	require.NoError(t, err)
	assert.False(t, sub.HasToken())

	sub, err = ValidateJumpPayload(map[string]any{
		"goals":          validGoals,
		"challenges":     validChallenges,
		"turnstileToken": "   ",
	})
	require.NoError(t, err)
	assert.False(t, sub.HasToken())
}

func TestValidateJumpIsIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{"goals": validGoals, "challenges": validChallenges},
		{"goals": "short", "challenges": validChallenges},
		{"goals": nil, "challenges": strings.Repeat("z", 2001)},
	}
	for _, in := range inputs {
		sub1, err1 := ValidateJumpPayload(in)
		sub2, err2 := ValidateJumpPayload(in)
		assert.Equal(t, sub1, sub2)
		assert.Equal(t, err1, err2)
	}
}

func TestValidateJumpRequest(t *testing.T) {
	token := "tok"
	sub, err := ValidateJumpRequest(dtos.JumpRequest{
		Goals:          "  " + validGoals,
		Challenges:     validChallenges,
		TurnstileToken: &token,
	})
	require.NoError(t, err)
	assert.Equal(t, validGoals, sub.Goals)
	assert.True(t, sub.HasToken())

	_, err = ValidateJumpRequest(dtos.JumpRequest{Goals: "", Challenges: ""})
	verr := requireValidationError(t, err)
	assert.Len(t, verr.Errors, 2)
}
