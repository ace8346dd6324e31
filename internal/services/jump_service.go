package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jumpinai/intake-service/internal/config"
	"github.com/jumpinai/intake-service/internal/dtos"
	"github.com/jumpinai/intake-service/internal/utils"
)

// Public message for every bot-check rejection, whatever the cause.
const verificationFailedMessage = "Verification failed, please try again"

// ------------------------------------------------------------------
// Service
// ------------------------------------------------------------------

type JumpService interface {
	// SubmitJump runs the bot check and hands a validated submission to
	// the plan generator.
	SubmitJump(ctx context.Context, sub dtos.FormSubmission, clientIP string) (*dtos.JumpResponse, error)
	Ping(ctx context.Context) error
}

type jumpService struct {
	cfg       *config.Config
	gate      BotCheckService
	generator PlanGenerator
}

func NewJumpService(cfg *config.Config, gate BotCheckService, generator PlanGenerator) JumpService {
	return &jumpService{
		cfg:       cfg,
		gate:      gate,
		generator: generator,
	}
}

// ------------------------------------------------------------------
// Public API
// ------------------------------------------------------------------

func (s *jumpService) SubmitJump(ctx context.Context, sub dtos.FormSubmission, clientIP string) (*dtos.JumpResponse, error) {
	id := uuid.NewString()
	log := utils.Logger.WithFields(logrus.Fields{"jump_id": id, "client_ip": clientIP})

	//-----------------------------------------------------------------
	// 1) Bot check
	//-----------------------------------------------------------------
	switch {
	case sub.HasToken():
		if !s.gate.Verify(ctx, *sub.VerificationToken, clientIP) {
			return nil, &utils.AppError{
				StatusCode: http.StatusForbidden,
				Code:       utils.ErrCodeVerificationFailed,
				Message:    verificationFailedMessage,
				Err:        utils.ErrVerificationFailed,
			}
		}
	case s.cfg.LDFlag_RequireTurnstileToken:
		return nil, &utils.AppError{
			StatusCode: http.StatusForbidden,
			Code:       utils.ErrCodeVerificationFailed,
			Message:    verificationFailedMessage,
			Err:        utils.ErrVerificationRequired,
		}
	default:
		log.Debug("No Turnstile token supplied; skipping bot check")
	}

	//-----------------------------------------------------------------
	// 2) Generation
	//-----------------------------------------------------------------
	if s.generator == nil || !s.generator.Enabled() {
		log.Info("Jump accepted for downstream generation")
		return &dtos.JumpResponse{ID: id, Status: dtos.JumpStatusAccepted}, nil
	}

	plan, err := s.generator.GeneratePlan(ctx, sub)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadGateway,
			Code:       utils.ErrCodeExternalServiceFailure,
			Message:    "Plan generation failed, please try again later",
			Err:        fmt.Errorf("%w: %w", utils.ErrGenerationFailed, err),
		}
	}

	log.Info("Jump generated")
	return &dtos.JumpResponse{ID: id, Status: dtos.JumpStatusGenerated, Plan: plan}, nil
}

func (s *jumpService) Ping(ctx context.Context) error {
	if err := s.gate.Ping(ctx); err != nil {
		return fmt.Errorf("bot check: %w", err)
	}
	return nil
}
