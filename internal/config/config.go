package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/jumpinai/intake-service/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	Env              string
	AppPort          string
	AppUrl           string

	// Bot-check gate
	TurnstileSecretKey string
	TurnstileVerifyURL string
	TurnstileTimeout   time.Duration

	// Plan generation; empty key disables the OpenAI generator.
	OpenAIAPIKey string

	// Feature-flag snapshots
	LDFlag_RequireTurnstileToken bool
	LDFlag_CORSHighSecurity      bool
	LDFlag_OpenAIJumpModel       string
}

const (
	OrganizationName        = utils.OrganizationName
	LDConnectionTimeout     = 5 * time.Second
	DefaultTurnstileURL     = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	DefaultTurnstileTimeout = 10 * time.Second
	DefaultOpenAIJumpModel  = "gpt-4o-mini"
)

// build-time overrides, set with -ldflags
var (
	AppName             string
	LDServerContextKey  string
	LDServerContextKind string
)

// LoadConfig reads ldflags, env, secrets and flags in that order and exits
// the process on anything missing.
func LoadConfig() *Config {
	//----------------------------------------------------------------------
	// 1) Validate required ldflags
	//----------------------------------------------------------------------
	if AppName == "" {
		utils.Logger.Fatal("AppName was not provided via ldflags")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	//----------------------------------------------------------------------
	// 2) Runtime environment vars
	//----------------------------------------------------------------------
	env := requireEnv("ENV")
	appURL := requireEnv("APP_URL_FROM_ANYWHERE")
	appPort := requireEnv("APP_PORT")

	verifyURL := os.Getenv("TURNSTILE_VERIFY_URL")
	if verifyURL == "" {
		verifyURL = DefaultTurnstileURL
	}
	timeout, err := durationFromEnv("TURNSTILE_TIMEOUT", DefaultTurnstileTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid TURNSTILE_TIMEOUT")
	}

	//----------------------------------------------------------------------
	// 3) Secrets: Bitwarden project <app>-<env> when configured, else env
	//----------------------------------------------------------------------
	secrets := map[string]string{}
	if utils.BWSConfigured() {
		client, err := utils.NewBWSSecretsClient()
		if err != nil {
			utils.Logger.WithError(err).Fatal("Init BWS client")
		}
		bwsProjectName := fmt.Sprintf("%s-%s", AppName, env)
		secrets, err = client.GetBWSSecrets(bwsProjectName)
		client.Close()
		if err != nil {
			utils.Logger.WithError(err).Fatal("Fetch BWS secrets")
		}
		utils.Logger.Debugf("Loaded %d secrets from BWS project %s", len(secrets), bwsProjectName)
	}

	turnstileSecret := secretValue(secrets, "TURNSTILE_SECRET_KEY")
	if turnstileSecret == "" {
		utils.Logger.Fatal("TURNSTILE_SECRET_KEY missing from secrets and env")
	}
	openAIKey := secretValue(secrets, "OPENAI_API_KEY")
	if openAIKey == "" {
		utils.Logger.Warn("OPENAI_API_KEY not set; Jump generation is delegated downstream")
	}

	//----------------------------------------------------------------------
	// 4) Flags: LaunchDarkly when an SDK key exists, else env
	//----------------------------------------------------------------------
	flags, err := flagsFromEnv()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid flag env var")
	}
	if ldSDK := secretValue(secrets, "LD_SDK_KEY"); ldSDK != "" {
		flags = loadLDFlags(ldSDK)
	}

	utils.Logger.Infof("Loaded config for %s (%s)", AppName, env)

	return &Config{
		OrganizationName:             OrganizationName,
		AppName:                      AppName,
		Env:                          env,
		AppPort:                      appPort,
		AppUrl:                       appURL,
		TurnstileSecretKey:           turnstileSecret,
		TurnstileVerifyURL:           verifyURL,
		TurnstileTimeout:             timeout,
		OpenAIAPIKey:                 openAIKey,
		LDFlag_RequireTurnstileToken: flags.requireTurnstileToken,
		LDFlag_CORSHighSecurity:      flags.corsHighSecurity,
		LDFlag_OpenAIJumpModel:       flags.openAIJumpModel,
	}
}

func (c *Config) Close() {
}

type flagSnapshot struct {
	requireTurnstileToken bool
	corsHighSecurity      bool
	openAIJumpModel       string
}

func loadLDFlags(sdkKey string) flagSnapshot {
	if LDServerContextKey == "" || LDServerContextKind == "" {
		utils.Logger.Fatal("LDServerContextKey/LDServerContextKind must be provided via ldflags when LD_SDK_KEY is set")
	}

	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	defer ldClient.Close()
	if !ldClient.Initialized() {
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)

	requireToken, err := ldClient.BoolVariation("require_turnstile_token", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("require_turnstile_token flag error")
	}
	utils.Logger.Debugf("require_turnstile_token flag: %t", requireToken)

	corsHigh, err := ldClient.BoolVariation("cors_high_security", ctx, true)
	if err != nil {
		utils.Logger.WithError(err).Fatal("cors_high_security flag error")
	}
	utils.Logger.Debugf("cors_high_security flag: %t", corsHigh)

	model, err := ldClient.StringVariation("openai_jump_model", ctx, DefaultOpenAIJumpModel)
	if err != nil || model == "" {
		utils.Logger.WithError(err).Fatal("openai_jump_model flag error / empty")
	}
	utils.Logger.Debugf("openai_jump_model flag: %s", model)

	return flagSnapshot{
		requireTurnstileToken: requireToken,
		corsHighSecurity:      corsHigh,
		openAIJumpModel:       model,
	}
}

func flagsFromEnv() (flagSnapshot, error) {
	requireToken, err := boolFromEnv("REQUIRE_TURNSTILE_TOKEN", false)
	if err != nil {
		return flagSnapshot{}, err
	}
	corsHigh, err := boolFromEnv("CORS_HIGH_SECURITY", true)
	if err != nil {
		return flagSnapshot{}, err
	}
	model := os.Getenv("OPENAI_JUMP_MODEL")
	if model == "" {
		model = DefaultOpenAIJumpModel
	}
	return flagSnapshot{
		requireTurnstileToken: requireToken,
		corsHighSecurity:      corsHigh,
		openAIJumpModel:       model,
	}, nil
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

// secretValue prefers the secret store and falls back to the process env.
func secretValue(secrets map[string]string, key string) string {
	if v := strings.TrimSpace(secrets[key]); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func boolFromEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
