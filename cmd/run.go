package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/voxhire/voxhire/internal/ai"
	"github.com/voxhire/voxhire/internal/ai/gemini"
	"github.com/voxhire/voxhire/internal/interview"
	"github.com/voxhire/voxhire/internal/logger"
	"github.com/voxhire/voxhire/internal/resume"
	"github.com/voxhire/voxhire/internal/secrets"
	"github.com/voxhire/voxhire/internal/store"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptRetry   = "Retry"
	PromptAbandon = "Abandon the interview"
)

var errAbandoned = errors.New("interview abandoned")

var experienceLevels = []string{"intern", "fresher", "junior", "mid", "senior"}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a mock interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("jd-file", "", "path to a job description text file (skips the prompt)")
	runCmd.Flags().String("resume-file", "", "path to a resume PDF (skips the prompt)")
	runCmd.Flags().String("resume-session", "", "continue an interrupted session by its id")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	appLog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		appLog.Fatal("getting a config", zap.Error(err))
	}

	appLog.Info("starting voxhire", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	appLog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	suite, err := newOracleSuite(ctx, config.AI, appLog)
	if err != nil {
		appLog.Fatal(
			"building the gemini oracle",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or the GEMINI_API_KEY_FILE environment variable"),
		)
	}

	db, err := store.Open(config.Store.Path)
	if err != nil {
		appLog.Fatal("opening the session store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	defer db.Close()

	if id := cmd.Flag("resume-session").Value.String(); id != "" {
		if err := resumeSession(ctx, db, suite, config, id, appLog); err != nil {
			appLog.Fatal("resuming session", zap.Error(err), zap.String(logger.FieldSession, id))
		}
		return
	}

	if err := newSession(ctx, cmd, db, suite, config, appLog); err != nil {
		if errors.Is(err, errAbandoned) {
			appLog.Info("exiting", zap.String("reason", "interview abandoned"))
			return
		}
		appLog.Fatal("running interview", zap.Error(err))
	}
}

func newSession(ctx context.Context, cmd *cobra.Command, db *store.Store, suite *gemini.Suite, config *Config, log *zap.Logger) error {
	candidate, resumePath, jdPath, err := onboard(cmd, config.Candidate)
	if err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}

	log.Info("analyzing inputs",
		zap.String("resume", resumePath),
		zap.String("jd", jdPath),
	)

	resumeText, err := resume.ExtractText(resumePath)
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}

	jdRaw, err := os.ReadFile(jdPath)
	if err != nil {
		return fmt.Errorf("reading job description: %w", err)
	}

	jd, err := suite.AnalyzeJD(ctx, string(jdRaw))
	if err != nil {
		return fmt.Errorf("analyzing job description: %w", err)
	}

	if candidate.RoleTitle == "" {
		candidate.RoleTitle = jd.RoleTitle
	}

	profile, err := suite.AnalyzeResume(ctx, resumeText)
	if err != nil {
		return fmt.Errorf("analyzing resume: %w", err)
	}

	match, err := suite.MatchResume(ctx, jd, profile)
	if err != nil {
		return fmt.Errorf("matching resume against jd: %w", err)
	}

	printMatchSummary(match)

	plan, err := suite.BuildPlan(ctx, jd)
	if err != nil {
		return fmt.Errorf("building interview plan: %w", err)
	}

	rounds, err := plan.Rounds(jd)
	if err != nil {
		return fmt.Errorf("assembling rounds: %w", err)
	}

	session, err := interview.New(rounds, passPolicy(config.Threshold, candidate.ExperienceLevel))
	if err != nil {
		return err
	}

	if err := session.Start(); err != nil {
		return err
	}

	analysis := &ai.AnalysisBundle{
		JD:     jd,
		Resume: profile,
		Match:  match,
	}

	id := uuid.NewString()
	record := &store.Record{
		ID:        id,
		Candidate: candidate,
		Rounds:    rounds,
		Snapshot:  session.Snapshot(),
		Analysis:  analysis,
	}
	if err := db.CreateSession(ctx, record); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	sessionLog := logger.WithSession(log, id, candidate.Name)
	sessionLog.Info("interview session created", zap.Int("rounds", len(rounds)))

	return conduct(ctx, db, suite, session, id, candidate, scoreContext(candidate, analysis), sessionLog)
}

func resumeSession(ctx context.Context, db *store.Store, suite *gemini.Suite, config *Config, id string, log *zap.Logger) error {
	record, err := db.Session(ctx, id)
	if err != nil {
		return err
	}

	evaluations, err := db.Evaluations(ctx, id)
	if err != nil {
		return err
	}

	policy := passPolicy(config.Threshold, record.Candidate.ExperienceLevel)

	session, err := interview.Restore(record.Rounds, policy, record.Snapshot, evaluations)
	if err != nil {
		return fmt.Errorf("restoring session state: %w", err)
	}

	sessionLog := logger.WithSession(log, id, record.Candidate.Name)
	sessionLog.Info("resuming interview session",
		zap.Int("answered", len(evaluations)),
		zap.Bool("finished", session.Finished()),
	)

	if session.Finished() {
		return report(ctx, suite, record.Candidate, session.Evaluations(), sessionLog)
	}

	return conduct(ctx, db, suite, session, id, record.Candidate, scoreContext(record.Candidate, record.Analysis), sessionLog)
}

// scoreContext assembles the request template every answer is scored with.
// The analysis bundle is persisted with the session, so resumed answers carry
// the same context as the ones scored before an interruption.
func scoreContext(candidate store.Candidate, analysis *ai.AnalysisBundle) *ai.ScoreRequest {
	req := &ai.ScoreRequest{RoleTitle: candidate.RoleTitle}
	if analysis != nil {
		req.JD = analysis.JD
		req.Resume = analysis.Resume
		req.Match = analysis.Match
	}
	return req
}

// conduct drives the question/answer/score loop until the session reaches a
// terminal state, persisting every accepted evaluation and state change.
func conduct(ctx context.Context, db *store.Store, suite *gemini.Suite, session *interview.Session, id string, candidate store.Candidate, scoreCtx *ai.ScoreRequest, log *zap.Logger) error {
	lastRound := -1

	for !session.Finished() {
		question, ok := session.CurrentQuestion()
		if ok {
			if current, _ := session.Cursor(); current != lastRound {
				lastRound = current
				if round, ok := session.CurrentRound(); ok {
					fmt.Printf("\n=== %s ===\n", round.Name)
				}
			}

			fmt.Printf("\n%s\n", question)

			answer, err := readAnswer()
			if err != nil {
				return err
			}

			result, err := scoreWithRetry(ctx, suite, scoreCtx, question, answer, log)
			if err != nil {
				// The session is untouched; a later resume re-asks
				// this question.
				if saveErr := db.SaveSnapshot(ctx, id, session.Snapshot()); saveErr != nil {
					log.Warn("saving snapshot before abandoning", zap.Error(saveErr))
				}
				return err
			}

			if err := session.SubmitAnswer(answer, result); err != nil {
				return err
			}

			evaluations := session.Evaluations()
			latest := evaluations[len(evaluations)-1]
			if err := db.AppendEvaluation(ctx, id, len(evaluations)-1, latest); err != nil {
				return fmt.Errorf("persisting evaluation: %w", err)
			}

			printAnswerFeedback(result)
		}

		transition, err := session.Advance()
		if err != nil {
			return err
		}

		if err := db.SaveSnapshot(ctx, id, session.Snapshot()); err != nil {
			return fmt.Errorf("persisting snapshot: %w", err)
		}

		if transition != nil {
			printTransition(transition)
			log.Info("round boundary",
				zap.String(logger.FieldRound, transition.RoundKey),
				zap.Float64("average", transition.AverageScore),
				zap.Bool("passed", transition.Passed),
			)
		}
	}

	return report(ctx, suite, candidate, session.Evaluations(), log)
}

func report(ctx context.Context, suite *gemini.Suite, candidate store.Candidate, evaluations []interview.Evaluation, log *zap.Logger) error {
	feedback, err := suite.CandidateFeedback(ctx, candidate.RoleTitle, evaluations)
	if err != nil {
		return fmt.Errorf("generating candidate feedback: %w", err)
	}
	printCandidateFeedback(feedback)

	hr, err := suite.HRReport(ctx, candidate.RoleTitle, evaluations)
	if err != nil {
		return fmt.Errorf("generating hr report: %w", err)
	}
	printHRReport(hr)

	log.Info("interview complete",
		zap.String("recommendation", hr.Recommendation),
		zap.Int("answers", len(evaluations)),
	)
	return nil
}

// onboard collects the candidate profile and input paths, preferring flag and
// config values over interactive prompts.
func onboard(cmd *cobra.Command, defaults *CandidateConfig) (store.Candidate, string, string, error) {
	var candidate store.Candidate

	name, err := promptString("Your name", defaults.Name, true)
	if err != nil {
		return candidate, "", "", err
	}

	company, err := promptString("Target company", defaults.Company, false)
	if err != nil {
		return candidate, "", "", err
	}

	role, err := promptString("Role you are applying for", defaults.RoleTitle, false)
	if err != nil {
		return candidate, "", "", err
	}

	level, err := promptExperience(defaults.ExperienceLevel)
	if err != nil {
		return candidate, "", "", err
	}

	resumePath := cmd.Flag("resume-file").Value.String()
	if resumePath == "" {
		resumePath, err = promptString("Path to your resume (PDF)", "", true)
		if err != nil {
			return candidate, "", "", err
		}
	}

	jdPath := cmd.Flag("jd-file").Value.String()
	if jdPath == "" {
		jdPath, err = promptString("Path to the job description (text file)", "", true)
		if err != nil {
			return candidate, "", "", err
		}
	}

	candidate = store.Candidate{
		Name:            name,
		Company:         company,
		RoleTitle:       role,
		ExperienceLevel: level,
	}

	return candidate, resumePath, jdPath, nil
}

func promptString(label, def string, required bool) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: def,
	}
	if required {
		prompt.Validate = func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		}
	}

	value, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(value), nil
}

func promptExperience(def string) (string, error) {
	def = strings.ToLower(strings.TrimSpace(def))
	for _, level := range experienceLevels {
		if level == def {
			return def, nil
		}
	}

	prompt := promptui.Select{
		Label: "Experience level",
		Items: experienceLevels,
	}

	_, level, err := prompt.Run()
	return level, err
}

// readAnswer reads one answer and measures how long the candidate took.
func readAnswer() (interview.Answer, error) {
	started := time.Now()

	transcript, err := promptString("Your answer", "", true)
	if err != nil {
		return interview.Answer{}, err
	}

	duration := time.Since(started).Seconds()
	return interview.Answer{
		Transcript:      transcript,
		DurationSeconds: &duration,
	}, nil
}

// scoreWithRetry asks the scoring oracle to evaluate the answer. On failure
// the candidate chooses between retrying and abandoning; the session is never
// touched with an invalid result.
func scoreWithRetry(ctx context.Context, scorer ai.Scorer, scoreCtx *ai.ScoreRequest, question string, answer interview.Answer, log *zap.Logger) (*ai.AnswerScore, error) {
	req := *scoreCtx
	req.Question = question
	req.Transcript = answer.Transcript
	req.DurationSeconds = answer.DurationSeconds
	req.FillerWords = answer.FillerWords

	for {
		result, err := scorer.ScoreAnswer(ctx, &req)
		if err == nil {
			return result, nil
		}

		log.Warn("scoring failed", zap.Error(err))

		choice := promptui.Select{
			Label: "Scoring the answer failed",
			Items: []string{PromptRetry, PromptAbandon},
		}

		_, action, promptErr := choice.Run()
		if promptErr != nil {
			return nil, promptErr
		}

		if action == PromptAbandon {
			return nil, errAbandoned
		}
	}
}

func passPolicy(cfg *ThresholdConfig, experienceLevel string) interview.PassPolicy {
	if cfg != nil && strings.EqualFold(cfg.Mode, "fixed") {
		score := cfg.Score
		if score <= 0 {
			score = interview.DefaultThreshold
		}
		return interview.FixedThreshold(score)
	}

	return interview.ByExperience(experienceLevel)
}

func printMatchSummary(match *ai.MatchReport) {
	fmt.Printf("\nResume match: skills %.0f/100, experience %.0f/100, overall %.0f/100\n",
		match.Scores.SkillMatch, match.Scores.ExperienceFit, match.Scores.OverallFit)

	if match.CandidateSummary != "" {
		fmt.Printf("%s\n", match.CandidateSummary)
	}
	for _, skill := range match.MissingCriticalSkills {
		fmt.Printf("  missing: %s\n", skill)
	}
}

func printAnswerFeedback(score *ai.AnswerScore) {
	if overall, ok := score.OverallImpression(); ok {
		fmt.Printf("\nScore: %.1f/10\n", overall)
	}
	for _, s := range score.Feedback.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, s := range score.Feedback.AreasToImprove {
		fmt.Printf("  - %s\n", s)
	}
}

func printTransition(result *interview.RoundResult) {
	switch {
	case result.Status == interview.RoundAdvanced:
		fmt.Printf("\n>> %s cleared with an average of %.1f. Moving on.\n", result.RoundName, result.AverageScore)
	case result.FinalRound && result.Passed:
		fmt.Printf("\n>> %s cleared with an average of %.1f. That was the last round!\n", result.RoundName, result.AverageScore)
	default:
		fmt.Printf("\n>> The interview ends here. %s average: %.1f.\n", result.RoundName, result.AverageScore)
	}
}

func printCandidateFeedback(feedback *ai.CandidateFeedback) {
	fmt.Printf("\n--- Your feedback ---\n%s\n", feedback.Summary)
	for _, s := range feedback.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, s := range feedback.ImprovementAreas {
		fmt.Printf("  - %s\n", s)
	}
	for _, s := range feedback.SuggestedActions {
		fmt.Printf("  * %s\n", s)
	}
}

func printHRReport(report *ai.HRReport) {
	fmt.Printf("\n--- HR report ---\nRecommendation: %s\n", report.Recommendation)
	for _, r := range report.RecommendationReasons {
		fmt.Printf("  %s\n", r)
	}
	if report.FinalVerdictLine != "" {
		fmt.Printf("%s\n", report.FinalVerdictLine)
	}

	pretty, _ := json.MarshalIndent(report.AggregatedScores, "", "  ")
	fmt.Printf("Scores:\n%s\n", pretty)
}

func newOracleSuite(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Suite, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  keyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, log)
	if err != nil {
		return nil, err
	}
	generator.SetMaxLogLength(cfg.Gemini.MaxLogLength)

	return gemini.NewSuite(generator, log), nil
}
