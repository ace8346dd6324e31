package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretValue(t *testing.T) {
	t.Setenv("TURNSTILE_SECRET_KEY", "from-env")

	assert.Equal(t, "from-bws", secretValue(map[string]string{"TURNSTILE_SECRET_KEY": "from-bws"}, "TURNSTILE_SECRET_KEY"))
	assert.Equal(t, "from-env", secretValue(map[string]string{"TURNSTILE_SECRET_KEY": "  "}, "TURNSTILE_SECRET_KEY"))
	assert.Equal(t, "from-env", secretValue(nil, "TURNSTILE_SECRET_KEY"))
	assert.Empty(t, secretValue(nil, "OPENAI_API_KEY_THAT_IS_NOT_SET"))
}

func TestDurationFromEnv(t *testing.T) {
	t.Setenv("TURNSTILE_TIMEOUT", "")
	d, err := durationFromEnv("TURNSTILE_TIMEOUT", DefaultTurnstileTimeout)
	require.NoError(t, err)
	assert.Equal(t, DefaultTurnstileTimeout, d)

	t.Setenv("TURNSTILE_TIMEOUT", "2500ms")
	d, err = durationFromEnv("TURNSTILE_TIMEOUT", DefaultTurnstileTimeout)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)

	t.Setenv("TURNSTILE_TIMEOUT", "soon")
	_, err = durationFromEnv("TURNSTILE_TIMEOUT", DefaultTurnstileTimeout)
	assert.Error(t, err)

	t.Setenv("TURNSTILE_TIMEOUT", "-1s")
	_, err = durationFromEnv("TURNSTILE_TIMEOUT", DefaultTurnstileTimeout)
	assert.Error(t, err)
}

func TestFlagsFromEnv(t *testing.T) {
	t.Setenv("REQUIRE_TURNSTILE_TOKEN", "")
	t.Setenv("CORS_HIGH_SECURITY", "")
	t.Setenv("OPENAI_JUMP_MODEL", "")

	flags, err := flagsFromEnv()
	require.NoError(t, err)
	assert.False(t, flags.requireTurnstileToken)
	assert.True(t, flags.corsHighSecurity)
	assert.Equal(t, DefaultOpenAIJumpModel, flags.openAIJumpModel)

	t.Setenv("REQUIRE_TURNSTILE_TOKEN", "true")
	t.Setenv("CORS_HIGH_SECURITY", "0")
	t.Setenv("OPENAI_JUMP_MODEL", "gpt-4o")
	flags, err = flagsFromEnv()
	require.NoError(t, err)
	assert.True(t, flags.requireTurnstileToken)
	assert.False(t, flags.corsHighSecurity)
	assert.Equal(t, "gpt-4o", flags.openAIJumpModel)

	t.Setenv("REQUIRE_TURNSTILE_TOKEN", "maybe")
	_, err = flagsFromEnv()
	assert.Error(t, err)
}
