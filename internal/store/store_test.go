package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/voxhire/voxhire/internal/ai"
	"github.com/voxhire/voxhire/internal/interview"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "voxhire.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func testRounds(t *testing.T) []interview.Round {
	t.Helper()

	rounds, err := interview.BuildRounds([]interview.PlanRound{
		{Key: "behavioral", Name: "Behavioral Round", Questions: []string{"Q1", "Q2"}},
		{Key: "technical", Name: "Technical Round", Questions: []string{"Q3"}},
	})
	if err != nil {
		t.Fatalf("building rounds: %v", err)
	}
	return rounds
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &Record{
		ID: "session-1",
		Candidate: Candidate{
			Name:            "Ada",
			Company:         "Acme",
			RoleTitle:       "Backend Engineer",
			ExperienceLevel: "mid",
		},
		Rounds:   testRounds(t),
		Snapshot: interview.Snapshot{Started: true},
	}

	if err := s.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	loaded, err := s.Session(ctx, "session-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	if loaded.Candidate != rec.Candidate {
		t.Fatalf("candidate mismatch: %+v vs %+v", loaded.Candidate, rec.Candidate)
	}
	if len(loaded.Rounds) != 2 || loaded.Rounds[0].Key != "behavioral" {
		t.Fatalf("rounds mismatch: %+v", loaded.Rounds)
	}
	if !loaded.Snapshot.Started || loaded.Snapshot.Finished {
		t.Fatalf("snapshot mismatch: %+v", loaded.Snapshot)
	}
}

func TestAnalysisRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &Record{
		ID:        "session-1",
		Candidate: Candidate{Name: "Ada"},
		Rounds:    testRounds(t),
		Analysis: &ai.AnalysisBundle{
			JD: &ai.JDInfo{
				RoleTitle:           "Backend Engineer",
				CoreTechnicalSkills: []string{"Go", "SQL"},
			},
			Resume: &ai.ResumeProfile{Headline: "Go developer"},
			Match:  &ai.MatchReport{Scores: ai.MatchScores{OverallFit: 72}},
		},
	}
	if err := s.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	loaded, err := s.Session(ctx, "session-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	if loaded.Analysis == nil {
		t.Fatal("expected analysis context to survive a reload")
	}
	if loaded.Analysis.JD == nil || loaded.Analysis.JD.RoleTitle != "Backend Engineer" {
		t.Fatalf("jd mismatch: %+v", loaded.Analysis.JD)
	}
	if loaded.Analysis.Resume == nil || loaded.Analysis.Resume.Headline != "Go developer" {
		t.Fatalf("resume mismatch: %+v", loaded.Analysis.Resume)
	}
	if loaded.Analysis.Match == nil || loaded.Analysis.Match.Scores.OverallFit != 72 {
		t.Fatalf("match mismatch: %+v", loaded.Analysis.Match)
	}
}

func TestSessionWithoutAnalysisLoadsNil(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &Record{ID: "session-1", Candidate: Candidate{Name: "Ada"}, Rounds: testRounds(t)}
	if err := s.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	loaded, err := s.Session(ctx, "session-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.Analysis != nil {
		t.Fatalf("expected nil analysis, got %+v", loaded.Analysis)
	}
}

func TestSessionNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Session(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveSnapshot(context.Background(), "missing", interview.Snapshot{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &Record{ID: "session-1", Candidate: Candidate{Name: "Ada"}, Rounds: testRounds(t)}
	if err := s.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	snap := interview.Snapshot{CurrentRound: 1, Started: true}
	if err := s.SaveSnapshot(ctx, "session-1", snap); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	loaded, err := s.Session(ctx, "session-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.Snapshot != snap {
		t.Fatalf("snapshot mismatch: %+v vs %+v", loaded.Snapshot, snap)
	}

	final := interview.Snapshot{
		CurrentRound: 1,
		Started:      true,
		Finished:     true,
		Terminal: &interview.RoundResult{
			Status:       interview.RoundEnded,
			RoundKey:     "technical",
			RoundName:    "Technical Round",
			AverageScore: 4.5,
			FinalRound:   true,
		},
	}
	if err := s.SaveSnapshot(ctx, "session-1", final); err != nil {
		t.Fatalf("save final snapshot: %v", err)
	}

	loaded, err = s.Session(ctx, "session-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.Snapshot.Terminal == nil {
		t.Fatal("expected the terminal outcome to survive a reload")
	}
	if got := loaded.Snapshot.Terminal; got.RoundKey != "technical" || got.AverageScore != 4.5 || got.Passed {
		t.Fatalf("terminal outcome mismatch: %+v", got)
	}
}

func TestEvaluationLogRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &Record{ID: "session-1", Candidate: Candidate{Name: "Ada"}, Rounds: testRounds(t)}
	if err := s.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	impression := 7.5
	duration := 42.0
	filler := 3
	ev := interview.Evaluation{
		RoundKey:  "behavioral",
		RoundName: "Behavioral Round",
		Question:  "Q1",
		Answer: interview.Answer{
			Transcript:      "my answer",
			DurationSeconds: &duration,
			FillerWords:     &filler,
		},
		Result: &ai.AnswerScore{
			Scores:    ai.AnswerScores{OverallImpression: &impression, Relevance: 8},
			HRComment: "good",
		},
		Timestamp: time.Now(),
	}

	if err := s.AppendEvaluation(ctx, "session-1", 0, ev); err != nil {
		t.Fatalf("append evaluation: %v", err)
	}

	evaluations, err := s.Evaluations(ctx, "session-1")
	if err != nil {
		t.Fatalf("load evaluations: %v", err)
	}
	if len(evaluations) != 1 {
		t.Fatalf("expected 1 evaluation, got %d", len(evaluations))
	}

	got := evaluations[0]
	if got.RoundKey != "behavioral" || got.Question != "Q1" || got.Answer.Transcript != "my answer" {
		t.Fatalf("evaluation mismatch: %+v", got)
	}
	if got.Answer.DurationSeconds == nil || *got.Answer.DurationSeconds != 42.0 {
		t.Fatalf("duration mismatch: %+v", got.Answer.DurationSeconds)
	}
	if got.Answer.FillerWords == nil || *got.Answer.FillerWords != 3 {
		t.Fatalf("filler words mismatch: %+v", got.Answer.FillerWords)
	}
	if score, ok := got.Result.OverallImpression(); !ok || score != 7.5 {
		t.Fatalf("scoring result mismatch: (%v, %v)", score, ok)
	}
}

func TestAppendEvaluationRejectsRewrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &Record{ID: "session-1", Candidate: Candidate{Name: "Ada"}, Rounds: testRounds(t)}
	if err := s.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	impression := 5.0
	ev := interview.Evaluation{
		RoundKey:  "behavioral",
		RoundName: "Behavioral Round",
		Question:  "Q1",
		Answer:    interview.Answer{Transcript: "a"},
		Result:    &ai.AnswerScore{Scores: ai.AnswerScores{OverallImpression: &impression}},
		Timestamp: time.Now(),
	}

	if err := s.AppendEvaluation(ctx, "session-1", 0, ev); err != nil {
		t.Fatalf("append evaluation: %v", err)
	}
	if err := s.AppendEvaluation(ctx, "session-1", 0, ev); err == nil {
		t.Fatalf("overwriting an existing ordinal must fail")
	}
}

func TestRestoreFromStoredState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rounds := testRounds(t)
	rec := &Record{ID: "session-1", Candidate: Candidate{Name: "Ada", ExperienceLevel: "mid"}, Rounds: rounds}
	if err := s.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	impression := 8.0
	for i, question := range []string{"Q1", "Q2"} {
		ev := interview.Evaluation{
			RoundKey:  "behavioral",
			RoundName: "Behavioral Round",
			Question:  question,
			Answer:    interview.Answer{Transcript: "answer"},
			Result:    &ai.AnswerScore{Scores: ai.AnswerScores{OverallImpression: &impression}},
			Timestamp: time.Now(),
		}
		if err := s.AppendEvaluation(ctx, "session-1", i, ev); err != nil {
			t.Fatalf("append evaluation: %v", err)
		}
	}
	snap := interview.Snapshot{CurrentRound: 1, CurrentQuestion: 0, Started: true}
	if err := s.SaveSnapshot(ctx, "session-1", snap); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	loaded, err := s.Session(ctx, "session-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	evaluations, err := s.Evaluations(ctx, "session-1")
	if err != nil {
		t.Fatalf("load evaluations: %v", err)
	}

	session, err := interview.Restore(loaded.Rounds, interview.ByExperience(loaded.Candidate.ExperienceLevel), loaded.Snapshot, evaluations)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	question, ok := session.CurrentQuestion()
	if !ok || question != "Q3" {
		t.Fatalf("expected to resume at Q3, got %q (%v)", question, ok)
	}
}
