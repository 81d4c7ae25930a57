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

//go:embed prompts/jd.md
var jdPrompt string

//go:embed prompts/resume.md
var resumePrompt string

//go:embed prompts/match.md
var matchPrompt string

// Analyzer implements ai.Analyzer on Gemini.
type Analyzer struct {
	generator jsonGenerator
	logger    *zap.Logger
}

// NewAnalyzer creates the Gemini-backed analysis oracle.
func NewAnalyzer(generator jsonGenerator, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{generator: generator, logger: log}
}

// AnalyzeJD parses raw job description text into structured JD data.
func (a *Analyzer) AnalyzeJD(ctx context.Context, jdText string) (*ai.JDInfo, error) {
	if strings.TrimSpace(jdText) == "" {
		return nil, errors.New("job description text is required")
	}

	raw, err := a.generator.GenerateJSON(ctx, jdPrompt, jdText)
	if err != nil {
		return nil, err
	}

	var jd ai.JDInfo
	if err := decodeResponse(raw, &jd); err != nil {
		return nil, err
	}

	a.logger.Debug("jd analyzed",
		zap.String("role_title", jd.RoleTitle),
		zap.String("experience_level", jd.ExperienceLevel),
		zap.Int("core_skills", len(jd.CoreTechnicalSkills)),
	)

	return &jd, nil
}

// AnalyzeResume parses extracted resume text into a structured profile.
func (a *Analyzer) AnalyzeResume(ctx context.Context, resumeText string) (*ai.ResumeProfile, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.New("resume text is required")
	}

	raw, err := a.generator.GenerateJSON(ctx, resumePrompt, resumeText)
	if err != nil {
		return nil, err
	}

	var profile ai.ResumeProfile
	if err := decodeResponse(raw, &profile); err != nil {
		return nil, err
	}

	a.logger.Debug("resume analyzed",
		zap.String("headline", profile.Headline),
		zap.Int("key_projects", len(profile.KeyProjects)),
	)

	return &profile, nil
}

// MatchResume compares the parsed resume against the parsed JD.
func (a *Analyzer) MatchResume(ctx context.Context, jd *ai.JDInfo, resume *ai.ResumeProfile) (*ai.MatchReport, error) {
	if jd == nil {
		return nil, errors.New("jd info is required")
	}
	if resume == nil {
		return nil, errors.New("resume profile is required")
	}

	payload, err := json.MarshalIndent(map[string]any{
		"jd_info":     jd,
		"resume_info": resume,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal match payload: %w", err)
	}

	raw, err := a.generator.GenerateJSON(ctx, matchPrompt, string(payload))
	if err != nil {
		return nil, err
	}

	var report ai.MatchReport
	if err := decodeResponse(raw, &report); err != nil {
		return nil, err
	}

	a.logger.Debug("resume matched against jd",
		zap.Float64("overall_fit", report.Scores.OverallFit),
		zap.Int("missing_critical_skills", len(report.MissingCriticalSkills)),
	)

	return &report, nil
}
