package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"talentx/internal/common"
	"talentx/internal/domain/job"
	"talentx/internal/domain/user"
	"talentx/internal/matching"
)

func TestTalentServiceMatched(t *testing.T) {
	jobs := newFakeJobRepo()
	users := newFakeUserRepo()
	employer := common.NewUUID()
	posting, err := jobs.Create(context.Background(), job.Job{PostedBy: employer, Title: "Go", Company: "Acme", TechStack: "Go, PostgreSQL", Status: job.StatusActive})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	for i := 0; i < 25; i++ {
		skills := "Python"
		if i == 7 {
			skills = "go, postgresql"
		}
		if _, err := users.Create(context.Background(), user.User{Email: fmt.Sprintf("t%d@example.com", i), Name: "T", Role: user.RoleTalent, Skills: skills}); err != nil {
			t.Fatalf("create talent: %v", err)
		}
	}
	if _, err := users.Create(context.Background(), user.User{Email: "boss@example.com", Role: user.RoleEmployer, Skills: "go, postgresql"}); err != nil {
		t.Fatalf("create employer: %v", err)
	}

	service := NewTalentService(jobs, users, matching.NewScorer(rand.NewPCG(1, 1)))
	matched, err := service.Matched(context.Background(), posting.ID, employer)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(matched) != matchedTalentLimit {
		t.Fatalf("expected %d talents, got %d", matchedTalentLimit, len(matched))
	}
	if matched[0].Email != "t7@example.com" {
		t.Fatalf("expected full overlap first, got %+v", matched[0])
	}
	for i := 1; i < len(matched); i++ {
		if matched[i].MatchScore > matched[i-1].MatchScore {
			t.Fatalf("expected descending scores, got %d after %d", matched[i].MatchScore, matched[i-1].MatchScore)
		}
		if matched[i].MatchScore < 0 || matched[i].MatchScore > 100 {
			t.Fatalf("score out of range: %d", matched[i].MatchScore)
		}
	}
}

func TestTalentServiceMatchedOwnership(t *testing.T) {
	jobs := newFakeJobRepo()
	users := newFakeUserRepo()
	posting, err := jobs.Create(context.Background(), job.Job{PostedBy: common.NewUUID(), Title: "Go", Company: "Acme"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	service := NewTalentService(jobs, users, nil)
	if _, err := service.Matched(context.Background(), posting.ID, common.NewUUID()); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := service.Matched(context.Background(), common.NewUUID(), common.NewUUID()); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
