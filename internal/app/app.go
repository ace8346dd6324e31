package app

import (
	"github.com/jumpinai/intake-service/internal/config"
	"github.com/jumpinai/intake-service/internal/services"
	"github.com/jumpinai/intake-service/internal/utils"
)

// App struct holds references to config & services.
type App struct {
	Config      *config.Config
	JumpService services.JumpService
}

// NewApp sets up the core application context (no DB needed).
func NewApp(cfg *config.Config) *App {
	utils.Logger.Info("Initializing intake-service App")

	gate := services.NewTurnstileService(
		cfg.TurnstileSecretKey,
		services.WithTurnstileEndpoint(cfg.TurnstileVerifyURL),
		services.WithTurnstileTimeout(cfg.TurnstileTimeout),
	)
	generator := services.NewOpenAIPlanGenerator(cfg.OpenAIAPIKey, cfg.LDFlag_OpenAIJumpModel)
	if !generator.Enabled() {
		utils.Logger.Info("OpenAI plan generation disabled; Jumps are accepted for downstream generation")
	}

	return &App{
		Config:      cfg,
		JumpService: services.NewJumpService(cfg, gate, generator),
	}
}

// Close is a no-op here but included for consistency.
func (a *App) Close() {
	utils.Logger.Info("intake-service app shutting down.")
}
