package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "embed"

	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/ai"
	"github.com/voxhire/voxhire/internal/interview"
)

//go:embed prompts/hr_report.md
var hrReportPrompt string

//go:embed prompts/coach.md
var coachPrompt string

// Reporter implements ai.Reporter on Gemini.
type Reporter struct {
	generator jsonGenerator
	logger    *zap.Logger
}

// NewReporter creates the Gemini-backed report oracle.
func NewReporter(generator jsonGenerator, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{generator: generator, logger: log}
}

// evaluationPayload is the wire shape of one evaluation record handed to the
// report prompts.
type evaluationPayload struct {
	RoundKey   string    `json:"round_key"`
	RoundName  string    `json:"round_name"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Evaluation any       `json:"evaluation"`
	Timestamp  time.Time `json:"timestamp"`
}

func reportPayload(roleTitle string, evaluations []interview.Evaluation) (string, error) {
	if len(evaluations) == 0 {
		return "", errors.New("no evaluations to report on")
	}

	records := make([]evaluationPayload, 0, len(evaluations))
	for _, ev := range evaluations {
		records = append(records, evaluationPayload{
			RoundKey:   ev.RoundKey,
			RoundName:  ev.RoundName,
			Question:   ev.Question,
			Answer:     ev.Answer.Transcript,
			Evaluation: ev.Result,
			Timestamp:  ev.Timestamp,
		})
	}

	payload, err := json.MarshalIndent(map[string]any{
		"role_title":  roleTitle,
		"evaluations": records,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report payload: %w", err)
	}

	return string(payload), nil
}

// HRReport aggregates the evaluation history into the hiring-manager report.
func (r *Reporter) HRReport(ctx context.Context, roleTitle string, evaluations []interview.Evaluation) (*ai.HRReport, error) {
	payload, err := reportPayload(roleTitle, evaluations)
	if err != nil {
		return nil, err
	}

	raw, err := r.generator.GenerateJSON(ctx, hrReportPrompt, payload)
	if err != nil {
		return nil, err
	}

	var report ai.HRReport
	if err := decodeResponse(raw, &report); err != nil {
		return nil, err
	}

	r.logger.Debug("hr report generated",
		zap.String("recommendation", report.Recommendation),
		zap.Float64("overall", report.AggregatedScores.OverallRecommendationScore),
	)

	return &report, nil
}

// CandidateFeedback aggregates the evaluation history into the coaching summary.
func (r *Reporter) CandidateFeedback(ctx context.Context, roleTitle string, evaluations []interview.Evaluation) (*ai.CandidateFeedback, error) {
	payload, err := reportPayload(roleTitle, evaluations)
	if err != nil {
		return nil, err
	}

	raw, err := r.generator.GenerateJSON(ctx, coachPrompt, payload)
	if err != nil {
		return nil, err
	}

	var feedback ai.CandidateFeedback
	if err := decodeResponse(raw, &feedback); err != nil {
		return nil, err
	}

	r.logger.Debug("candidate feedback generated",
		zap.Int("strengths", len(feedback.Strengths)),
		zap.Int("improvement_areas", len(feedback.ImprovementAreas)),
	)

	return &feedback, nil
}
