package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/ai"
)

//go:embed prompts/score.md
var scorePrompt string

// ErrMissingOverallImpression marks a scoring response that decoded but lacks
// the one field the session cannot do without.
var ErrMissingOverallImpression = errors.New("scoring response has no overall_impression")

// jsonGenerator is the slice of Generator the oracle implementations need.
type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, payload string) (string, error)
}

// Scorer implements ai.Scorer on Gemini.
type Scorer struct {
	generator jsonGenerator
	logger    *zap.Logger
}

// NewScorer creates the Gemini-backed scoring oracle.
func NewScorer(generator jsonGenerator, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{generator: generator, logger: log}
}

// ScoreAnswer evaluates one answered question. A malformed or incomplete
// response is an error; no partial result ever reaches the session.
func (s *Scorer) ScoreAnswer(ctx context.Context, req *ai.ScoreRequest) (*ai.AnswerScore, error) {
	if req == nil {
		return nil, errors.New("score request is required")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, errors.New("question is required")
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, errors.New("answer transcript is required")
	}

	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal score request: %w", err)
	}

	raw, err := s.generator.GenerateJSON(ctx, scorePrompt, string(payload))
	if err != nil {
		return nil, err
	}

	var score ai.AnswerScore
	if err := decodeResponse(raw, &score); err != nil {
		return nil, err
	}

	if score.Scores.OverallImpression == nil {
		return nil, ErrMissingOverallImpression
	}

	clampScores(&score.Scores)
	score.Raw = raw

	s.logger.Debug("answer scored",
		zap.Float64("overall_impression", *score.Scores.OverallImpression),
		zap.Float64("relevance", score.Scores.Relevance),
		zap.Float64("content_depth", score.Scores.ContentDepth),
	)

	return &score, nil
}

func clampScores(scores *ai.AnswerScores) {
	scores.Relevance = clampScore(scores.Relevance)
	scores.ContentDepth = clampScore(scores.ContentDepth)
	scores.StarCompleteness = clampScore(scores.StarCompleteness)
	scores.RoleSkillMatch = clampScore(scores.RoleSkillMatch)
	scores.Grammar = clampScore(scores.Grammar)
	scores.Confidence = clampScore(scores.Confidence)

	clamped := clampScore(*scores.OverallImpression)
	scores.OverallImpression = &clamped
}
