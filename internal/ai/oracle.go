// Package ai defines the judgment-producing collaborators of the interview
// flow as pluggable capability interfaces. Each one is an opaque structured-I/O
// service: the core never interprets how a result was produced, only its shape.
package ai

import (
	"context"

	"github.com/voxhire/voxhire/internal/interview"
)

// Scorer evaluates a single answered question. The one latency-bearing,
// failure-prone call of the flow: callers obtain a valid result before
// touching the session, and retry or abandon on error.
type Scorer interface {
	ScoreAnswer(ctx context.Context, req *ScoreRequest) (*AnswerScore, error)
}

// Planner designs the interview question groups from parsed JD data.
type Planner interface {
	BuildPlan(ctx context.Context, jd *JDInfo) (*InterviewPlan, error)
}

// Analyzer parses free-form resume and JD text into structured data and
// matches the two before the interview starts.
type Analyzer interface {
	AnalyzeJD(ctx context.Context, jdText string) (*JDInfo, error)
	AnalyzeResume(ctx context.Context, resumeText string) (*ResumeProfile, error)
	MatchResume(ctx context.Context, jd *JDInfo, resume *ResumeProfile) (*MatchReport, error)
}

// Reporter aggregates the full evaluation history into the two final reports.
type Reporter interface {
	HRReport(ctx context.Context, roleTitle string, evaluations []interview.Evaluation) (*HRReport, error)
	CandidateFeedback(ctx context.Context, roleTitle string, evaluations []interview.Evaluation) (*CandidateFeedback, error)
}
