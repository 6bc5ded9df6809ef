// Package seed loads demo users and jobs from a YAML fixture.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"talentx/internal/common"
	"talentx/internal/domain/job"
	"talentx/internal/domain/user"
	"talentx/internal/security"
)

//go:embed seed.yaml
var defaultFixture []byte

type Fixture struct {
	Password string    `yaml:"password"`
	Users    []UserDef `yaml:"users"`
	Jobs     []JobDef  `yaml:"jobs"`
}

type UserDef struct {
	Email  string `yaml:"email"`
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Skills string `yaml:"skills"`
}

type JobDef struct {
	PostedBy     string `yaml:"posted_by"`
	Title        string `yaml:"title"`
	Company      string `yaml:"company"`
	TechStack    string `yaml:"tech_stack"`
	Location     string `yaml:"location"`
	Description  string `yaml:"description"`
	Requirements string `yaml:"requirements"`
	SalaryMin    *int   `yaml:"salary_min"`
	SalaryMax    *int   `yaml:"salary_max"`
	DeadlineDays int    `yaml:"deadline_days"`
}

type Result struct {
	UsersCreated int
	UsersSkipped int
	JobsCreated  int
	JobsSkipped  int
}

func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

func Parse(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if fixture.Password == "" {
		return nil, fmt.Errorf("parse fixture: password is required")
	}
	for _, def := range fixture.Users {
		if !user.Role(def.Role).Valid() {
			return nil, fmt.Errorf("parse fixture: user %s has invalid role %q", def.Email, def.Role)
		}
	}
	return &fixture, nil
}

type Seeder struct {
	users  user.Repository
	jobs   job.Repository
	logger *slog.Logger
	clock  func() time.Time
}

func NewSeeder(users user.Repository, jobs job.Repository, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{users: users, jobs: jobs, logger: logger, clock: time.Now}
}

func (s *Seeder) WithClock(clock func() time.Time) *Seeder {
	s.clock = clock
	return s
}

// Apply inserts the fixture. Users already present by email and jobs the same
// employer already posts under the same title are skipped.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture) (*Result, error) {
	hash, err := security.HashPassword(fixture.Password)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	owners := map[string]common.UUID{}
	for _, def := range fixture.Users {
		email := strings.ToLower(strings.TrimSpace(def.Email))
		existing, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			owners[email] = existing.ID
			result.UsersSkipped++
			continue
		}
		if !common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		account := user.User{Email: email, Name: def.Name, Role: user.Role(def.Role), PasswordHash: hash, CreatedAt: s.clock().UTC()}
		if account.Role == user.RoleTalent {
			account.Skills = def.Skills
		}
		created, err := s.users.Create(ctx, account)
		if err != nil {
			return nil, err
		}
		owners[email] = created.ID
		result.UsersCreated++
		s.logger.InfoContext(ctx, "seeded user", slog.String("email", email), slog.String("role", def.Role))
	}

	for _, def := range fixture.Jobs {
		ownerEmail := strings.ToLower(strings.TrimSpace(def.PostedBy))
		ownerID, ok := owners[ownerEmail]
		if !ok {
			return nil, fmt.Errorf("job %q: unknown poster %s", def.Title, def.PostedBy)
		}
		exists, err := s.jobExists(ctx, ownerID, def.Title)
		if err != nil {
			return nil, err
		}
		if exists {
			result.JobsSkipped++
			continue
		}
		now := s.clock().UTC()
		posting := job.Job{
			PostedBy:     ownerID,
			Title:        def.Title,
			Company:      def.Company,
			TechStack:    def.TechStack,
			Location:     def.Location,
			Description:  def.Description,
			Requirements: def.Requirements,
			SalaryMin:    def.SalaryMin,
			SalaryMax:    def.SalaryMax,
			Status:       job.StatusActive,
			CreatedAt:    now,
		}
		if def.DeadlineDays > 0 {
			deadline := now.AddDate(0, 0, def.DeadlineDays)
			posting.ApplicationDeadline = &deadline
		}
		if _, err := s.jobs.Create(ctx, posting); err != nil {
			return nil, err
		}
		result.JobsCreated++
		s.logger.InfoContext(ctx, "seeded job", slog.String("title", def.Title))
	}
	return result, nil
}

func (s *Seeder) jobExists(ctx context.Context, ownerID common.UUID, title string) (bool, error) {
	matches, err := s.jobs.Search(ctx, job.Filter{Query: title, Limit: 100})
	if err != nil {
		return false, err
	}
	for _, posting := range matches {
		if posting.PostedBy == ownerID && strings.EqualFold(posting.Title, title) {
			return true, nil
		}
	}
	return false, nil
}
