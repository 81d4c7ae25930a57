package ai

import "github.com/voxhire/voxhire/internal/interview"

// InterviewPlan is the plan oracle's raw output: three fixed question groups.
type InterviewPlan struct {
	BehavioralQuestions []string `json:"behavioral_questions"`
	TechnicalQuestions  []string `json:"technical_questions"`
	CultureFitQuestions []string `json:"culture_fit_questions"`
}

// Rounds assembles the plan into ordered interview rounds: behavioral first,
// then technical (only for technical roles), then culture fit. Blank questions
// and empty rounds are dropped by the normalization in interview.BuildRounds.
func (p *InterviewPlan) Rounds(jd *JDInfo) ([]interview.Round, error) {
	planned := []interview.PlanRound{
		{Key: "behavioral", Name: "Behavioral Round", Questions: p.BehavioralQuestions},
	}

	if jd.Technical() {
		planned = append(planned, interview.PlanRound{
			Key:       "technical",
			Name:      "Technical Round",
			Questions: p.TechnicalQuestions,
		})
	}

	planned = append(planned, interview.PlanRound{
		Key:       "culture_fit",
		Name:      "Culture Fit / HR Round",
		Questions: p.CultureFitQuestions,
	})

	return interview.BuildRounds(planned)
}
