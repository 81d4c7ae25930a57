package ai

// ScoreRequest carries everything the scoring oracle needs to judge one answer.
// The analysis context fields are optional; scoring degrades gracefully
// without them.
type ScoreRequest struct {
	Question        string         `json:"question"`
	Transcript      string         `json:"answer_transcript"`
	DurationSeconds *float64       `json:"answer_duration_seconds,omitempty"`
	FillerWords     *int           `json:"filler_word_count,omitempty"`
	RoleTitle       string         `json:"role_title,omitempty"`
	JD              *JDInfo        `json:"jd_info,omitempty"`
	Resume          *ResumeProfile `json:"resume_info,omitempty"`
	Match           *MatchReport   `json:"match_report,omitempty"`
}

// STAR is the Situation/Task/Action/Result breakdown the scoring oracle
// extracts from an answer.
type STAR struct {
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// AnswerScores are the 0-10 sub-scores of a single answer. OverallImpression
// is a pointer so a result that genuinely lacks it can be told apart from a
// zero score; such results are excluded from round averages.
type AnswerScores struct {
	Relevance         float64  `json:"relevance"`
	ContentDepth      float64  `json:"content_depth"`
	StarCompleteness  float64  `json:"star_completeness"`
	RoleSkillMatch    float64  `json:"role_skill_match"`
	Grammar           float64  `json:"grammar"`
	Confidence        float64  `json:"confidence"`
	OverallImpression *float64 `json:"overall_impression"`
}

// AnswerFeedback is the candidate-friendly portion of a score.
type AnswerFeedback struct {
	Strengths      []string `json:"strengths"`
	AreasToImprove []string `json:"areas_to_improve"`
}

// AnswerScore is the scoring oracle's structured evaluation of one answer.
// It satisfies interview.ScoringResult and is stored verbatim in the
// evaluation log.
type AnswerScore struct {
	Star      STAR           `json:"star"`
	Scores    AnswerScores   `json:"scores"`
	Feedback  AnswerFeedback `json:"feedback"`
	HRComment string         `json:"hr_comment"`
	// Raw is the oracle's unparsed response, kept for debugging only.
	Raw string `json:"-"`
}

// OverallImpression implements interview.ScoringResult.
func (a *AnswerScore) OverallImpression() (float64, bool) {
	if a == nil || a.Scores.OverallImpression == nil {
		return 0, false
	}
	return *a.Scores.OverallImpression, true
}

// JDInfo is the structured form of a job description.
type JDInfo struct {
	CoreTechnicalSkills      []string `json:"core_technical_skills"`
	SecondaryTechnicalSkills []string `json:"secondary_technical_skills"`
	SoftSkills               []string `json:"soft_skills"`
	ExperienceLevel          string   `json:"experience_level"`
	RoleTitle                string   `json:"role_title"`
	Summary                  string   `json:"summary"`
}

// Technical reports whether the JD describes a technical role. The plan
// includes a technical round only for technical roles.
func (jd *JDInfo) Technical() bool {
	return jd != nil && len(jd.CoreTechnicalSkills) > 0
}

// ResumeProfile is the structured form of a resume.
type ResumeProfile struct {
	Headline            string   `json:"headline"`
	YearsOfExperience   string   `json:"years_of_experience"`
	CoreTechnicalSkills []string `json:"core_technical_skills"`
	SecondarySkills     []string `json:"secondary_skills"`
	SoftSkills          []string `json:"soft_skills"`
	KeyProjects         []string `json:"key_projects"`
	RolesAndDomains     []string `json:"roles_and_domains"`
}

// MatchScores are the 0-100 resume-vs-JD fit scores.
type MatchScores struct {
	SkillMatch    float64 `json:"skill_match_score"`
	ExperienceFit float64 `json:"experience_fit_score"`
	OverallFit    float64 `json:"overall_fit_score"`
}

// MatchReport compares a parsed resume against a parsed JD.
type MatchReport struct {
	Scores                   MatchScores `json:"scores"`
	StrongMatches            []string    `json:"strong_matches"`
	MissingCriticalSkills    []string    `json:"missing_critical_skills"`
	OptionalNiceToHaveSkills []string    `json:"optional_nice_to_have_skills"`
	OverindexedAreas         []string    `json:"overindexed_areas"`
	CandidateSummary         string      `json:"candidate_summary"`
	CandidateImprovementTips []string    `json:"candidate_improvement_tips"`
	HRRiskFlags              []string    `json:"hr_risk_flags"`
	HROverallComment         string      `json:"hr_overall_comment"`
}

// AnalysisBundle groups the pre-interview analysis artifacts. It is persisted
// with the session so answers scored after a resume carry the same context as
// answers scored before the interruption.
type AnalysisBundle struct {
	JD     *JDInfo        `json:"jd_info,omitempty"`
	Resume *ResumeProfile `json:"resume_info,omitempty"`
	Match  *MatchReport   `json:"match_report,omitempty"`
}

// AggregatedScores are the 0-10 category scores of the HR report.
type AggregatedScores struct {
	TechnicalSkill             float64 `json:"technical_skill"`
	BehavioralSkill            float64 `json:"behavioral_skill"`
	CommunicationAndGrammar    float64 `json:"communication_and_grammar"`
	Confidence                 float64 `json:"confidence"`
	CultureFit                 float64 `json:"culture_fit"`
	OverallRecommendationScore float64 `json:"overall_recommendation_score"`
}

// HRReport is the hiring-manager-facing interview summary.
type HRReport struct {
	AggregatedScores      AggregatedScores `json:"aggregated_scores"`
	Recommendation        string           `json:"recommendation"`
	RecommendationReasons []string         `json:"recommendation_reasons"`
	Strengths             []string         `json:"strengths"`
	Weaknesses            []string         `json:"weaknesses"`
	FinalVerdictLine      string           `json:"final_verdict_line"`
}

// CandidateFeedback is the candidate-facing coaching summary. It carries no
// numeric scores and no hire/reject outcome.
type CandidateFeedback struct {
	Summary          string   `json:"summary"`
	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
	SuggestedActions []string `json:"suggested_actions"`
}
