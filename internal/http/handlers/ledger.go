package handlers

import (
	"net/http"
	"time"

	"talentx/internal/app"
	"talentx/internal/common"
	"talentx/internal/http/middleware"
	"talentx/internal/http/response"
)

const (
	applyLimit  = 3
	inviteLimit = 10
)

// LedgerHandler serves invitations and applications.
type LedgerHandler struct {
	ledger  *app.LedgerService
	limiter middleware.Limiter
}

func NewLedgerHandler(ledger *app.LedgerService, limiter middleware.Limiter) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, limiter: limiter}
}

type inviteRequest struct {
	TalentEmail string `json:"talent_email"`
	Message     string `json:"message"`
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

func (h *LedgerHandler) Invite(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow(r.Context(), "invite:"+employerID.String(), inviteLimit, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "invite rate limit exceeded", nil))
		return
	}
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.ledger.CreateInvitation(r.Context(), jobID, employerID, req.TalentEmail, req.Message)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *LedgerHandler) Apply(w http.ResponseWriter, r *http.Request) {
	talentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow(r.Context(), "apply:"+jobID.String()+":"+talentID.String(), applyLimit, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
		return
	}
	var req applyRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.ledger.CreateManualApplication(r.Context(), jobID, talentID, req.CoverLetter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *LedgerHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.ledger.ListApplicationsForJob(r.Context(), jobID, employerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *LedgerHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	talentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.ledger.ListInvitationsForTalent(r.Context(), talentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *LedgerHandler) Accept(w http.ResponseWriter, r *http.Request) {
	talentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	invitationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.ledger.AcceptInvitation(r.Context(), invitationID, talentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *LedgerHandler) Decline(w http.ResponseWriter, r *http.Request) {
	talentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	invitationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	declined, err := h.ledger.DeclineInvitation(r.Context(), invitationID, talentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, declined)
}
