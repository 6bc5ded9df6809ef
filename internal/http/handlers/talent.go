package handlers

import (
	"net/http"
	"strings"

	"talentx/internal/app"
	"talentx/internal/common"
	"talentx/internal/http/middleware"
	"talentx/internal/http/response"
)

type TalentHandler struct {
	talents *app.TalentService
}

func NewTalentHandler(talents *app.TalentService) *TalentHandler {
	return &TalentHandler{talents: talents}
}

func (h *TalentHandler) Matched(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("job_id"))
	if raw == "" {
		response.Error(w, common.NewValidationError("job_id is required", map[string]string{"job_id": "required"}))
		return
	}
	jobID, err := common.ParseUUID(raw)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid job_id", map[string]string{"job_id": "invalid uuid"}))
		return
	}
	talents, err := h.talents.Matched(r.Context(), jobID, employerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"talents": talents})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
