package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"talentx/internal/app"
	"talentx/internal/common"
	"talentx/internal/domain/job"
	"talentx/internal/http/middleware"
	"talentx/internal/http/response"
	"talentx/internal/integration/aiwriter"
)

type JobHandler struct {
	jobs   *app.JobService
	writer *aiwriter.Writer
}

func NewJobHandler(jobs *app.JobService, writer *aiwriter.Writer) *JobHandler {
	return &JobHandler{jobs: jobs, writer: writer}
}

type jobRequest struct {
	Title               *string `json:"title"`
	Company             *string `json:"company"`
	TechStack           *string `json:"tech_stack"`
	ApplicationDeadline *string `json:"application_deadline"`
	Location            *string `json:"location"`
	Description         *string `json:"description"`
	Requirements        *string `json:"requirements"`
	SalaryMin           *int    `json:"salary_min"`
	SalaryMax           *int    `json:"salary_max"`
	Status              *string `json:"status"`
}

type describeRequest struct {
	Title     string `json:"title"`
	TechStack string `json:"tech_stack"`
}

func (h *JobHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := job.Filter{
		Query:    strings.TrimSpace(query.Get("q")),
		Company:  strings.TrimSpace(query.Get("company")),
		Location: strings.TrimSpace(query.Get("location")),
	}
	var err error
	if filter.Limit, err = intParam(query.Get("limit"), "limit"); err != nil {
		response.Error(w, err)
		return
	}
	if filter.Offset, err = intParam(query.Get("offset"), "offset"); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.jobs.Search(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	posting, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, posting)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	deadline, err := parseDeadline(deref(req.ApplicationDeadline))
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), employerID, app.JobInput{
		Title:               deref(req.Title),
		Company:             deref(req.Company),
		TechStack:           deref(req.TechStack),
		ApplicationDeadline: deadline,
		Location:            deref(req.Location),
		Description:         deref(req.Description),
		Requirements:        deref(req.Requirements),
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	patch := app.JobPatch{
		Title:        req.Title,
		Company:      req.Company,
		TechStack:    req.TechStack,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
	}
	if req.ApplicationDeadline != nil {
		if patch.ApplicationDeadline, err = parseDeadline(*req.ApplicationDeadline); err != nil {
			response.Error(w, err)
			return
		}
	}
	if req.Status != nil {
		status := job.Status(*req.Status)
		patch.Status = &status
	}
	updated, err := h.jobs.Update(r.Context(), employerID, jobID, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.jobs.Delete(r.Context(), employerID, jobID); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

func (h *JobHandler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	description, err := h.writer.Describe(r.Context(), req.Title, req.TechStack)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"description": description})
}

func intParam(value, name string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, common.NewValidationError("invalid query", map[string]string{name: "must be a non-negative integer"})
	}
	return parsed, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
