package controllers

import (
	"net/http"

	"github.com/jumpinai/intake-service/internal/dtos"
	"github.com/jumpinai/intake-service/internal/services"
	"github.com/jumpinai/intake-service/internal/utils"
)

type HealthController struct {
	svc services.JumpService
}

func NewHealthController(s services.JumpService) *HealthController {
	return &HealthController{svc: s}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.Ping(r.Context()); err != nil {
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Service unhealthy",
			nil,
			err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
