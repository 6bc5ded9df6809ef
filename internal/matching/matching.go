// Package matching scores how well a talent's skills cover a job's tech stack.
//
// Scores carry a random jitter of up to five points. Pass a seeded source to
// NewScorer for reproducible output.
package matching

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"
)

const (
	MinScore = 0
	MaxScore = 100

	// Scores used when either side lists no skills.
	unknownFloor  = 70
	unknownSpread = 31

	baseScore = 50
	jitter    = 5
)

type Scorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScorer returns a scorer drawing jitter from src, or from a random seed when src is nil.
func NewScorer(src rand.Source) *Scorer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Scorer{rng: rand.New(src)}
}

// Score rates skills against techStack. Both are comma-separated lists compared
// case-insensitively. The result is clamped to [MinScore, MaxScore]. Only a blank
// list is scored at random; a list of separators has no overlap.
func (s *Scorer) Score(techStack, skills string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(techStack) == "" || strings.TrimSpace(skills) == "" {
		return unknownFloor + s.rng.IntN(unknownSpread)
	}
	required := ParseSkills(techStack)
	offered := ParseSkills(skills)

	have := make(map[string]struct{}, len(offered))
	for _, skill := range offered {
		have[skill] = struct{}{}
	}
	matches := 0
	for _, skill := range required {
		if _, ok := have[skill]; ok {
			matches++
		}
	}
	overlap := 0.0
	if len(required) > 0 {
		overlap = float64(matches) / float64(len(required))
	}
	base := math.Min(MaxScore, baseScore+overlap*baseScore)
	score := int(math.Round(base + s.rng.Float64()*2*jitter - jitter))
	return Clamp(score)
}

func Clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}

// ParseSkills splits a comma-separated list into unique lower-cased entries, dropping blanks.
func ParseSkills(list string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(list, ",") {
		skill := strings.ToLower(strings.TrimSpace(part))
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out
}
