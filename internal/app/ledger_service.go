package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"talentx/internal/common"
	"talentx/internal/domain/application"
	"talentx/internal/domain/invitation"
	"talentx/internal/domain/job"
	"talentx/internal/domain/user"
	"talentx/internal/observability"
)

// LedgerEvents receives a tick for every committed ledger transition.
type LedgerEvents interface {
	IncInvitationsCreated()
	IncInvitationsAccepted()
	IncInvitationsDeclined()
	IncApplicationsCreated()
	IncAlreadyApplied()
}

type noopEvents struct{}

func (noopEvents) IncInvitationsCreated()  {}
func (noopEvents) IncInvitationsAccepted() {}
func (noopEvents) IncInvitationsDeclined() {}
func (noopEvents) IncApplicationsCreated() {}
func (noopEvents) IncAlreadyApplied()      {}

// LedgerService owns invitations and applications for a (job, talent) pair.
// Uniqueness and the accept transaction are enforced by the repositories.
type LedgerService struct {
	jobs         job.Repository
	users        user.Repository
	invitations  invitation.Repository
	applications application.Repository
	events       LedgerEvents
	logger       *slog.Logger
	tracer       trace.Tracer
	clock        func() time.Time
}

func NewLedgerService(jobs job.Repository, users user.Repository, invitations invitation.Repository, applications application.Repository, events LedgerEvents, logger *slog.Logger) *LedgerService {
	if events == nil {
		events = noopEvents{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		jobs:         jobs,
		users:        users,
		invitations:  invitations,
		applications: applications,
		events:       events,
		logger:       logger,
		tracer:       observability.Tracer(),
		clock:        time.Now,
	}
}

// WithClock replaces the time source used for deadline checks and timestamps.
func (s *LedgerService) WithClock(clock func() time.Time) *LedgerService {
	s.clock = clock
	return s
}

func (s *LedgerService) CreateInvitation(ctx context.Context, jobID, employerID common.UUID, talentEmail, message string) (_ *invitation.Invitation, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.create_invitation", trace.WithAttributes(attribute.String("job.id", jobID.String())))
	defer func() { endSpan(span, err) }()

	talentEmail = strings.TrimSpace(talentEmail)
	if talentEmail == "" {
		return nil, common.NewValidationError("talent_email is required", map[string]string{"talent_email": "required"})
	}
	now := s.clock().UTC()

	posting, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting.PostedBy != employerID {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	if posting.DeadlinePassed(now) {
		return nil, common.NewError(common.CodeDeadlinePassed, "job deadline has passed", nil)
	}

	talent, err := s.users.GetByEmail(ctx, talentEmail)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "talent not found with that email", err)
		}
		return nil, err
	}
	if talent.Role != user.RoleTalent {
		return nil, common.NewError(common.CodeNotFound, "talent not found with that email", nil)
	}

	created, err := s.invitations.Create(ctx, invitation.Invitation{
		JobID:      jobID,
		TalentID:   talent.ID,
		EmployerID: employerID,
		Message:    strings.TrimSpace(message),
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}
	s.events.IncInvitationsCreated()
	s.logger.InfoContext(ctx, "invitation created",
		slog.String("invitation_id", created.ID.String()),
		slog.String("job_id", jobID.String()),
		slog.String("talent_id", talent.ID.String()))
	return created, nil
}

// AcceptInvitation accepts a pending invitation and records the talent's application.
// When an application already exists it is returned unchanged with AlreadyApplied set.
func (s *LedgerService) AcceptInvitation(ctx context.Context, invitationID, talentID common.UUID) (_ *invitation.AcceptResult, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.accept_invitation", trace.WithAttributes(attribute.String("invitation.id", invitationID.String())))
	defer func() { endSpan(span, err) }()

	now := s.clock().UTC()
	inv, err := s.invitations.GetPending(ctx, invitationID, talentID)
	if err != nil {
		return nil, err
	}
	posting, err := s.jobs.GetByID(ctx, inv.JobID)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if posting != nil && posting.DeadlinePassed(now) {
		return nil, common.NewError(common.CodeDeadlinePassed, "application deadline has passed", nil)
	}

	result, err := s.invitations.Accept(ctx, invitationID, talentID, application.Application{
		Source:      application.SourceInvitation,
		Status:      application.StatusPending,
		CoverLetter: application.InvitationCoverLetter,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	s.events.IncInvitationsAccepted()
	if result.AlreadyApplied {
		s.events.IncAlreadyApplied()
	} else {
		s.events.IncApplicationsCreated()
	}
	span.SetAttributes(attribute.Bool("ledger.already_applied", result.AlreadyApplied))
	s.logger.InfoContext(ctx, "invitation accepted",
		slog.String("invitation_id", invitationID.String()),
		slog.String("application_id", result.Application.ID.String()),
		slog.Bool("already_applied", result.AlreadyApplied))
	return result, nil
}

func (s *LedgerService) DeclineInvitation(ctx context.Context, invitationID, talentID common.UUID) (_ *invitation.Invitation, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.decline_invitation", trace.WithAttributes(attribute.String("invitation.id", invitationID.String())))
	defer func() { endSpan(span, err) }()

	declined, err := s.invitations.Decline(ctx, invitationID, talentID)
	if err != nil {
		return nil, err
	}
	s.events.IncInvitationsDeclined()
	s.logger.InfoContext(ctx, "invitation declined", slog.String("invitation_id", invitationID.String()))
	return declined, nil
}

func (s *LedgerService) CreateManualApplication(ctx context.Context, jobID, talentID common.UUID, coverLetter string) (_ *application.Application, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.create_application", trace.WithAttributes(attribute.String("job.id", jobID.String())))
	defer func() { endSpan(span, err) }()

	now := s.clock().UTC()
	posting, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting.Status != job.StatusActive {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	if posting.DeadlinePassed(now) {
		return nil, common.NewError(common.CodeDeadlinePassed, "application deadline has passed", nil)
	}

	created, err := s.applications.Create(ctx, application.Application{
		JobID:       jobID,
		TalentID:    talentID,
		Source:      application.SourceManual,
		Status:      application.StatusPending,
		CoverLetter: coverLetter,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	s.events.IncApplicationsCreated()
	s.logger.InfoContext(ctx, "application created",
		slog.String("application_id", created.ID.String()),
		slog.String("job_id", jobID.String()),
		slog.String("talent_id", talentID.String()))
	return created, nil
}

func (s *LedgerService) ListInvitationsForTalent(ctx context.Context, talentID common.UUID) ([]invitation.View, error) {
	return s.invitations.ListByTalent(ctx, talentID)
}

func (s *LedgerService) ListApplicationsForJob(ctx context.Context, jobID, employerID common.UUID) ([]application.View, error) {
	posting, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting.PostedBy != employerID {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return s.applications.ListByJob(ctx, jobID)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("error.code", string(common.CodeOf(err))))
		if common.CodeOf(err) == common.CodeInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
