package app

import (
	"context"
	"strings"
	"time"

	"talentx/internal/common"
	"talentx/internal/domain/job"
)

const (
	defaultJobLimit = 20
	maxJobLimit     = 100
)

type JobService struct {
	repo  job.Repository
	clock func() time.Time
}

func NewJobService(repo job.Repository) *JobService {
	return &JobService{repo: repo, clock: time.Now}
}

func (s *JobService) WithClock(clock func() time.Time) *JobService {
	s.clock = clock
	return s
}

type JobInput struct {
	Title               string
	Company             string
	TechStack           string
	ApplicationDeadline *time.Time
	Location            string
	Description         string
	Requirements        string
	SalaryMin           *int
	SalaryMax           *int
}

// JobPatch carries the fields of a partial update. Nil fields keep their current value.
type JobPatch struct {
	Title               *string
	Company             *string
	TechStack           *string
	ApplicationDeadline *time.Time
	Location            *string
	Description         *string
	Requirements        *string
	SalaryMin           *int
	SalaryMax           *int
	Status              *job.Status
}

type SearchResult struct {
	Jobs  []job.Job `json:"jobs"`
	Total int       `json:"total"`
}

func (s *JobService) Search(ctx context.Context, filter job.Filter) (*SearchResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultJobLimit
	}
	if filter.Limit > maxJobLimit {
		filter.Limit = maxJobLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	jobs, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Jobs: jobs, Total: total}, nil
}

// Get returns an active job. Closed and draft jobs are not public.
func (s *JobService) Get(ctx context.Context, id common.UUID) (*job.Job, error) {
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if posting.Status != job.StatusActive {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return posting, nil
}

func (s *JobService) Create(ctx context.Context, employerID common.UUID, input JobInput) (*job.Job, error) {
	posting := job.Job{
		PostedBy:            employerID,
		Title:               strings.TrimSpace(input.Title),
		Company:             strings.TrimSpace(input.Company),
		TechStack:           strings.TrimSpace(input.TechStack),
		ApplicationDeadline: input.ApplicationDeadline,
		Location:            strings.TrimSpace(input.Location),
		Description:         input.Description,
		Requirements:        input.Requirements,
		SalaryMin:           input.SalaryMin,
		SalaryMax:           input.SalaryMax,
		Status:              job.StatusActive,
		CreatedAt:           s.clock().UTC(),
	}
	if err := validateJob(posting); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, posting)
}

func (s *JobService) Update(ctx context.Context, employerID, id common.UUID, patch JobPatch) (*job.Job, error) {
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if posting.PostedBy != employerID {
		return nil, common.NewError(common.CodeForbidden, "not your job", nil)
	}
	if patch.Title != nil {
		posting.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Company != nil {
		posting.Company = strings.TrimSpace(*patch.Company)
	}
	if patch.TechStack != nil {
		posting.TechStack = strings.TrimSpace(*patch.TechStack)
	}
	if patch.ApplicationDeadline != nil {
		posting.ApplicationDeadline = patch.ApplicationDeadline
	}
	if patch.Location != nil {
		posting.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Description != nil {
		posting.Description = *patch.Description
	}
	if patch.Requirements != nil {
		posting.Requirements = *patch.Requirements
	}
	if patch.SalaryMin != nil {
		posting.SalaryMin = patch.SalaryMin
	}
	if patch.SalaryMax != nil {
		posting.SalaryMax = patch.SalaryMax
	}
	if patch.Status != nil {
		posting.Status = job.Status(strings.ToLower(strings.TrimSpace(string(*patch.Status))))
	}
	if err := validateJob(*posting); err != nil {
		return nil, err
	}
	posting.UpdatedAt = s.clock().UTC()
	return s.repo.Update(ctx, *posting)
}

func (s *JobService) Delete(ctx context.Context, employerID, id common.UUID) error {
	return s.repo.Delete(ctx, id, employerID)
}

func validateJob(posting job.Job) error {
	fields := map[string]string{}
	if posting.Title == "" {
		fields["title"] = "required"
	}
	if posting.Company == "" {
		fields["company"] = "required"
	}
	if !posting.Status.Valid() {
		fields["status"] = "must be active, closed or draft"
	}
	if posting.SalaryMin != nil && *posting.SalaryMin < 0 {
		fields["salary_min"] = "must not be negative"
	}
	if posting.SalaryMax != nil && *posting.SalaryMax < 0 {
		fields["salary_max"] = "must not be negative"
	}
	if posting.SalaryMin != nil && posting.SalaryMax != nil && *posting.SalaryMin > *posting.SalaryMax {
		fields["salary_max"] = "must not be below salary_min"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid job", fields)
	}
	return nil
}
