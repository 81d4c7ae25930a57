package interview

import (
	"errors"
	"testing"
)

func TestBuildRoundsDropsEmptyRounds(t *testing.T) {
	rounds, err := BuildRounds([]PlanRound{
		{Key: "behavioral", Name: "Behavioral Round", Questions: []string{"Q1", "Q2"}},
		{Key: "technical", Name: "Technical Round", Questions: []string{"  ", ""}},
		{Key: "culture_fit", Name: "Culture Fit / HR Round", Questions: []string{"Q3"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].Key != "behavioral" || rounds[1].Key != "culture_fit" {
		t.Fatalf("unexpected round keys: %q, %q", rounds[0].Key, rounds[1].Key)
	}
	if rounds[1].Ordinal != 1 {
		t.Fatalf("ordinals must be reassigned after dropping rounds, got %d", rounds[1].Ordinal)
	}

	// The dropped round must never show up in transition signals.
	s, err := New(rounds, FixedThreshold(0))
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for {
		if _, ok := s.CurrentQuestion(); ok {
			if err := s.SubmitAnswer(Answer{Transcript: "a"}, scored(10)); err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
		res, err := s.Advance()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if res == nil {
			continue
		}
		if res.RoundKey == "technical" {
			t.Fatalf("dropped round appeared in a transition signal")
		}
		if res.Status == RoundEnded {
			break
		}
	}
}

func TestBuildRoundsTrimsQuestions(t *testing.T) {
	rounds, err := BuildRounds([]PlanRound{
		{Key: "r", Name: "Round", Questions: []string{"  Q1  ", "", "Q2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rounds[0].Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(rounds[0].Questions))
	}
	if rounds[0].Questions[0] != "Q1" {
		t.Fatalf("question not trimmed: %q", rounds[0].Questions[0])
	}
}

func TestBuildRoundsDerivesKeyFromName(t *testing.T) {
	rounds, err := BuildRounds([]PlanRound{
		{Name: "Culture Fit / HR Round", Questions: []string{"Q"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rounds[0].Key != "culture_fit_hr_round" {
		t.Fatalf("unexpected derived key: %q", rounds[0].Key)
	}
}

func TestBuildRoundsDeduplicatesKeys(t *testing.T) {
	rounds, err := BuildRounds([]PlanRound{
		{Key: "tech", Name: "Technical Screen", Questions: []string{"Q1"}},
		{Key: "tech", Name: "Technical Deep Dive", Questions: []string{"Q2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rounds[0].Key == rounds[1].Key {
		t.Fatalf("keys must be unique within a session, both %q", rounds[0].Key)
	}
}

func TestBuildRoundsRejectsEmptyPlan(t *testing.T) {
	cases := [][]PlanRound{
		nil,
		{},
		{{Key: "r", Name: "Round", Questions: []string{" ", ""}}},
	}

	for _, planned := range cases {
		if _, err := BuildRounds(planned); !errors.Is(err, ErrEmptyPlan) {
			t.Fatalf("expected ErrEmptyPlan for %+v, got %v", planned, err)
		}
	}
}
