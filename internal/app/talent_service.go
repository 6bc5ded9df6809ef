package app

import (
	"context"
	"sort"

	"talentx/internal/common"
	"talentx/internal/domain/job"
	"talentx/internal/domain/user"
	"talentx/internal/matching"
)

const matchedTalentLimit = 20

type MatchedTalent struct {
	ID         common.UUID `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Skills     string      `json:"skills"`
	MatchScore int         `json:"match_score"`
}

type TalentService struct {
	jobs   job.Repository
	users  user.Repository
	scorer *matching.Scorer
}

func NewTalentService(jobs job.Repository, users user.Repository, scorer *matching.Scorer) *TalentService {
	if scorer == nil {
		scorer = matching.NewScorer(nil)
	}
	return &TalentService{jobs: jobs, users: users, scorer: scorer}
}

// Matched ranks every talent against the employer's job and returns the best twenty.
func (s *TalentService) Matched(ctx context.Context, jobID, employerID common.UUID) ([]MatchedTalent, error) {
	posting, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting.PostedBy != employerID {
		return nil, common.NewError(common.CodeForbidden, "not your job", nil)
	}
	talents, err := s.users.ListByRole(ctx, user.RoleTalent)
	if err != nil {
		return nil, err
	}
	matched := make([]MatchedTalent, 0, len(talents))
	for _, talent := range talents {
		matched = append(matched, MatchedTalent{
			ID:         talent.ID,
			Name:       talent.Name,
			Email:      talent.Email,
			Skills:     talent.Skills,
			MatchScore: matching.Clamp(s.scorer.Score(posting.TechStack, talent.Skills)),
		})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})
	if len(matched) > matchedTalentLimit {
		matched = matched[:matchedTalentLimit]
	}
	return matched, nil
}
