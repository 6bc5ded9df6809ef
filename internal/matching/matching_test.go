package matching

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestParseSkills(t *testing.T) {
	got := ParseSkills(" React, node.js ,,react, TypeScript ")
	want := []string{"react", "node.js", "typescript"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := ParseSkills(" , "); len(got) != 0 {
		t.Fatalf("expected no skills, got %v", got)
	}
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer(rand.NewPCG(1, 2))
	cases := []struct {
		name      string
		stack     string
		skills    string
		low, high int
	}{
		{name: "unknown stack", stack: "", skills: "Go", low: 70, high: 100},
		{name: "unknown skills", stack: "Go", skills: " ", low: 70, high: 100},
		{name: "full overlap", stack: "Go, SQL", skills: "sql,go,docker", low: 95, high: 100},
		{name: "half overlap", stack: "Go, SQL", skills: "Go", low: 70, high: 80},
		{name: "no overlap", stack: "Go, SQL", skills: "Python", low: 45, high: 55},
		{name: "separator-only stack", stack: " , ", skills: "go", low: 45, high: 55},
		{name: "separator-only skills", stack: "Go", skills: ",,", low: 45, high: 55},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				score := scorer.Score(tc.stack, tc.skills)
				if score < tc.low || score > tc.high {
					t.Fatalf("score %d outside [%d, %d]", score, tc.low, tc.high)
				}
			}
		})
	}
}

func TestScoreIsReproducibleWithSeed(t *testing.T) {
	a := NewScorer(rand.NewPCG(7, 7))
	b := NewScorer(rand.NewPCG(7, 7))
	for i := 0; i < 20; i++ {
		if x, y := a.Score("Go, SQL", "Go"), b.Score("Go, SQL", "Go"); x != y {
			t.Fatalf("expected equal scores for equal seeds, got %d and %d", x, y)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-3) != 0 || Clamp(104) != 100 || Clamp(42) != 42 {
		t.Fatal("unexpected clamp result")
	}
}
