package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"talentx/internal/common"
	"talentx/internal/database"
	"talentx/internal/domain/application"
	"talentx/internal/domain/job"
	"talentx/internal/domain/user"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db           *sql.DB
	users        *UserRepository
	jobs         *JobRepository
	applications *ApplicationRepository
	invitations  *InvitationRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := database.Open(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(ctx, db, dialect); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &fixture{
		db:           db,
		users:        NewUserRepository(db, dialect),
		jobs:         NewJobRepository(db, dialect),
		applications: NewApplicationRepository(db, dialect),
		invitations:  NewInvitationRepository(db, dialect),
	}
}

func (f *fixture) user(t *testing.T, email string, role user.Role) *user.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), user.User{
		Email:        email,
		Name:         email,
		Role:         role,
		PasswordHash: "hash",
		CreatedAt:    baseTime,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) job(t *testing.T, owner common.UUID, title string, created time.Time) *job.Job {
	t.Helper()
	j, err := f.jobs.Create(context.Background(), job.Job{
		PostedBy:  owner,
		Title:     title,
		Company:   "Acme",
		Location:  "Remote",
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}

func TestMigrateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	if err := database.Migrate(context.Background(), f.db, database.SQLite()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jane@example.com", user.RoleTalent)

	_, err := f.users.Create(context.Background(), user.User{Email: "JANE@example.com", Name: "x", Role: user.RoleTalent, PasswordHash: "h"})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := f.users.GetByEmail(context.Background(), " Jane@Example.com ")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.Role != user.RoleTalent {
		t.Fatalf("expected talent role, got %s", got.Role)
	}

	_, err = f.users.GetByID(context.Background(), common.NewUUID())
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJobRepositorySearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "boss@example.com", user.RoleEmployer)
	older := f.job(t, owner.ID, "Go Engineer", baseTime)
	newer := f.job(t, owner.ID, "React Developer", baseTime.Add(time.Hour))
	closed := f.job(t, owner.ID, "Go Lead", baseTime.Add(2*time.Hour))
	closed.Status = job.StatusClosed
	if _, err := f.jobs.Update(ctx, *closed); err != nil {
		t.Fatalf("close job: %v", err)
	}

	all, err := f.jobs.Search(ctx, job.Filter{Limit: 20})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Fatalf("expected active jobs newest first, got %+v", all)
	}
	if all[0].PostedByName != owner.Name {
		t.Fatalf("expected poster name %q, got %q", owner.Name, all[0].PostedByName)
	}

	matched, err := f.jobs.Search(ctx, job.Filter{Query: "go", Limit: 20})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != older.ID {
		t.Fatalf("expected only the active go job, got %+v", matched)
	}

	none, err := f.jobs.Search(ctx, job.Filter{Query: "_", Limit: 20})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected wildcard to be escaped, got %+v", none)
	}

	total, err := f.jobs.CountActive(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 active jobs, got %d", total)
	}
}

func TestJobRepositoryDeadlineAndSalaryRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "boss@example.com", user.RoleEmployer)
	deadline := baseTime.Add(72 * time.Hour)
	salary := 90000
	created, err := f.jobs.Create(ctx, job.Job{
		PostedBy:            owner.ID,
		Title:               "Backend Engineer",
		Company:             "DataFlow",
		ApplicationDeadline: &deadline,
		SalaryMin:           &salary,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.jobs.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ApplicationDeadline == nil || !got.ApplicationDeadline.Equal(deadline) {
		t.Fatalf("expected deadline %v, got %v", deadline, got.ApplicationDeadline)
	}
	if got.SalaryMin == nil || *got.SalaryMin != salary || got.SalaryMax != nil {
		t.Fatalf("unexpected salaries %v %v", got.SalaryMin, got.SalaryMax)
	}
	if got.Status != job.StatusActive {
		t.Fatalf("expected default active status, got %s", got.Status)
	}
}

func TestJobRepositoryDeleteRequiresOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "boss@example.com", user.RoleEmployer)
	other := f.user(t, "other@example.com", user.RoleEmployer)
	j := f.job(t, owner.ID, "Go Engineer", baseTime)

	if err := f.jobs.Delete(ctx, j.ID, other.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}
	if err := f.jobs.Delete(ctx, j.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.jobs.GetByID(ctx, j.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected job gone, got %v", err)
	}
}

func TestApplicationRepositoryUniquePerJobAndTalent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "boss@example.com", user.RoleEmployer)
	talent := f.user(t, "jane@example.com", user.RoleTalent)
	j := f.job(t, owner.ID, "Go Engineer", baseTime)

	app := application.Application{JobID: j.ID, TalentID: talent.ID, Source: application.SourceManual, CoverLetter: "hi"}
	if _, err := f.applications.Create(ctx, app); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.applications.Create(ctx, app); !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	views, err := f.applications.ListByJob(ctx, j.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].TalentEmail != "jane@example.com" || views[0].Status != application.StatusPending {
		t.Fatalf("unexpected applications %+v", views)
	}
}

func TestJobDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "boss@example.com", user.RoleEmployer)
	talent := f.user(t, "jane@example.com", user.RoleTalent)
	j := f.job(t, owner.ID, "Go Engineer", baseTime)
	if _, err := f.applications.Create(ctx, application.Application{JobID: j.ID, TalentID: talent.ID, Source: application.SourceManual}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := f.jobs.Delete(ctx, j.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.applications.FindByJobAndTalent(ctx, j.ID, talent.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected application removed with job, got %v", err)
	}
}

func jobWithDeadline(owner common.UUID, deadline time.Time) job.Job {
	return job.Job{PostedBy: owner, Title: "Data Engineer", Company: "DataFlow", ApplicationDeadline: &deadline}
}
