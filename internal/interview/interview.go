// Package interview holds the multi-round interview session state machine.
// It owns round/question cursors, the append-only evaluation log and the
// pass/fail decision between rounds. Everything that produces judgments
// (scoring, planning, reporting) lives behind interfaces in internal/ai;
// this package never makes network calls.
package interview

import (
	"errors"
	"time"
)

var (
	// ErrEmptyPlan is returned when plan normalization leaves no usable rounds.
	ErrEmptyPlan = errors.New("interview plan contains no rounds with questions")
	// ErrAlreadyStarted is returned by Start on a session that is already running.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNotStarted is returned when an operation requires a started session.
	ErrNotStarted = errors.New("session not started")
	// ErrNoCurrentQuestion is returned by SubmitAnswer when there is no
	// question to answer (round boundary or finished session).
	ErrNoCurrentQuestion = errors.New("no current question")
	// ErrNilResult is returned by SubmitAnswer when the scoring result is missing.
	ErrNilResult = errors.New("scoring result is required")
)

// patchable in tests
var now = time.Now

// ScoringResult is the opaque evaluation produced by the scoring oracle.
// The session only reads the overall impression; everything else is stored
// verbatim for reporting.
type ScoringResult interface {
	// OverallImpression returns the 0-10 gut rating and whether it is present.
	// Results without it are excluded from round averages.
	OverallImpression() (float64, bool)
}

// Answer is the candidate's reply to a single question. It exists only until
// scored, then is folded into an Evaluation.
type Answer struct {
	Transcript      string
	DurationSeconds *float64
	FillerWords     *int
}

// Evaluation pairs one question and answer with its scoring result. The
// session appends evaluations and never mutates them afterwards.
type Evaluation struct {
	RoundKey  string
	RoundName string
	Question  string
	Answer    Answer
	Result    ScoringResult
	Timestamp time.Time
}

// RoundStatus describes the outcome of Advance at a round boundary.
type RoundStatus string

const (
	// RoundAdvanced means the round was passed and the session moved to the next one.
	RoundAdvanced RoundStatus = "advanced"
	// RoundEnded means the session is over, either because a round was failed
	// or because the final round completed.
	RoundEnded RoundStatus = "ended"
)

// RoundResult is the transition signal returned by Advance when a round's
// questions are exhausted. A terminal result travels inside Snapshot, hence
// the json tags.
type RoundResult struct {
	Status       RoundStatus `json:"status"`
	RoundKey     string      `json:"round_key"`
	RoundName    string      `json:"round_name"`
	AverageScore float64     `json:"average_score"`
	// FinalRound is true when the result concerns the last round of the plan.
	FinalRound bool `json:"final_round"`
	// Passed reports whether the round met its threshold. Together with
	// FinalRound it distinguishes "ended, passed the final round" from
	// "ended, failed mid-flow".
	Passed bool `json:"passed"`
}
