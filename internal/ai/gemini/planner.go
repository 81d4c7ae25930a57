package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	_ "embed"

	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/ai"
)

//go:embed prompts/plan.md
var planPrompt string

// Planner implements ai.Planner on Gemini.
type Planner struct {
	generator jsonGenerator
	logger    *zap.Logger
}

// NewPlanner creates the Gemini-backed plan oracle.
func NewPlanner(generator jsonGenerator, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{generator: generator, logger: log}
}

// BuildPlan designs the interview question groups for the parsed JD. Round
// assembly and empty-round filtering happen later in interview.BuildRounds;
// this call only has to deliver the groups.
func (p *Planner) BuildPlan(ctx context.Context, jd *ai.JDInfo) (*ai.InterviewPlan, error) {
	if jd == nil {
		return nil, errors.New("jd info is required")
	}

	payload, err := json.MarshalIndent(jd, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal jd info: %w", err)
	}

	raw, err := p.generator.GenerateJSON(ctx, planPrompt, string(payload))
	if err != nil {
		return nil, err
	}

	var plan ai.InterviewPlan
	if err := decodeResponse(raw, &plan); err != nil {
		return nil, err
	}

	p.logger.Debug("interview plan built",
		zap.Int("behavioral", len(plan.BehavioralQuestions)),
		zap.Int("technical", len(plan.TechnicalQuestions)),
		zap.Int("culture_fit", len(plan.CultureFitQuestions)),
	)

	return &plan, nil
}
