package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jumpinai/intake-service/internal/dtos"
	"github.com/jumpinai/intake-service/internal/services"
	"github.com/jumpinai/intake-service/internal/utils"
)

// Form fields cap at 2000 characters each; anything near this is abuse.
const maxJumpBodyBytes = 64 << 10

type JumpController struct {
	svc services.JumpService
}

func NewJumpController(s services.JumpService) *JumpController {
	return &JumpController{svc: s}
}

// -----------------------------------------------------------------------------
// POST /api/v1/jumps
// -----------------------------------------------------------------------------
func (c *JumpController) SubmitJump(w http.ResponseWriter, r *http.Request) {
	sub, ok := decodeAndValidate(w, r)
	if !ok {
		return
	}

	resp, err := c.svc.SubmitJump(r.Context(), *sub, utils.GetClientIP(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// -----------------------------------------------------------------------------
// POST /api/v1/jumps/valid
// Success ⇒ HTTP 200 with an empty object; no bot check, no generation.
// -----------------------------------------------------------------------------
func (c *JumpController) ValidateJump(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeAndValidate(w, r); !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.JumpValidResponse{})
}

// -----------------------------------------------------------------------------
// shared helper
// -----------------------------------------------------------------------------
func decodeAndValidate(w http.ResponseWriter, r *http.Request) (*dtos.FormSubmission, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJumpBodyBytes)

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return nil, false
	}

	sub, err := services.ValidateJumpPayload(raw)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, verr.Errors[0].Message, verr.Errors, err,
			)
			return nil, false
		}
		utils.HandleAppError(w, err)
		return nil, false
	}
	return sub, true
}
