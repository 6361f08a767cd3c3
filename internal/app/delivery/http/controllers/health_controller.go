package controllers

import (
	"appointment-composite-service/internal/app/config"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/dto/responses"
	"appointment-composite-service/internal/pkg/utils"
	"net/http"
)

// HealthController answers liveness probes. It does not check downstream services.
type HealthController struct {
	App config.App
}

func NewHealthController(app config.App) *HealthController {
	return &HealthController{App: app}
}

func (ctrl *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, responses.Health{
		Status:  "ok",
		Name:    ctrl.App.Name,
		Version: ctrl.App.Version,
	})
}
