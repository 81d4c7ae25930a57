package gemini

import "go.uber.org/zap"

// Suite bundles the four Gemini oracles over one shared generator. It
// satisfies ai.Scorer, ai.Planner, ai.Analyzer and ai.Reporter.
type Suite struct {
	*Scorer
	*Planner
	*Analyzer
	*Reporter
}

// NewSuite wires every oracle to the same generator and logger.
func NewSuite(generator *Generator, log *zap.Logger) *Suite {
	return &Suite{
		Scorer:   NewScorer(generator, log),
		Planner:  NewPlanner(generator, log),
		Analyzer: NewAnalyzer(generator, log),
		Reporter: NewReporter(generator, log),
	}
}
