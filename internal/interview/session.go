package interview

import "fmt"

// Session is the central interview entity: one candidate, one plan, one
// strictly sequential flow of submit/advance calls. It is not safe for
// concurrent use; each candidate gets their own instance.
type Session struct {
	rounds      []Round
	policy      PassPolicy
	current     int
	question    int
	evaluations []Evaluation
	started     bool
	finished    bool
	// terminal holds the RoundResult that ended the session so a repeated
	// Advance at the boundary returns the same signal without mutating state.
	terminal *RoundResult
}

// New creates a session over normalized rounds. The rounds must come from
// BuildRounds; an empty set is a configuration failure.
func New(rounds []Round, policy PassPolicy) (*Session, error) {
	if len(rounds) == 0 {
		return nil, ErrEmptyPlan
	}
	if policy == nil {
		policy = FixedThreshold(DefaultThreshold)
	}

	return &Session{
		rounds: rounds,
		policy: policy,
	}, nil
}

// Start begins the interview. Valid only once per session; a second call is
// rejected and leaves state untouched.
func (s *Session) Start() error {
	if s.started {
		return ErrAlreadyStarted
	}

	s.current = 0
	s.question = 0
	s.evaluations = nil
	s.started = true
	s.finished = false
	s.terminal = nil

	return nil
}

// CurrentQuestion returns the question at the session's cursor. The second
// return value is false when there is nothing to ask: the session has not
// started, is finished, all rounds are exhausted, or the current round's
// questions are exhausted (a round boundary the caller resolves via Advance).
func (s *Session) CurrentQuestion() (string, bool) {
	if !s.started || s.finished || s.current >= len(s.rounds) {
		return "", false
	}

	round := s.rounds[s.current]
	if s.question >= len(round.Questions) {
		return "", false
	}

	return round.Questions[s.question], true
}

// SubmitAnswer records the scored answer for the current question and moves
// the question cursor forward. It never decides round transitions; callers
// invoke Advance next. The scoring result must already be validated by the
// caller: a failed oracle call means SubmitAnswer is simply not invoked and
// the session stays exactly as it was.
func (s *Session) SubmitAnswer(answer Answer, result ScoringResult) error {
	question, ok := s.CurrentQuestion()
	if !ok {
		if !s.started {
			return ErrNotStarted
		}
		return ErrNoCurrentQuestion
	}
	if result == nil {
		return ErrNilResult
	}

	round := s.rounds[s.current]
	s.evaluations = append(s.evaluations, Evaluation{
		RoundKey:  round.Key,
		RoundName: round.Name,
		Question:  question,
		Answer:    answer,
		Result:    result,
		Timestamp: now(),
	})
	s.question++

	return nil
}

// Advance resolves the round boundary, if any. Called after every
// SubmitAnswer or whenever CurrentQuestion reported none.
//
// While the current round still has questions it changes nothing and returns
// a nil result. Once the round's questions are exhausted it scores the round:
// a pass before the last round moves the cursors forward; a fail, or the end
// of the last round, finishes the session. A finished session keeps returning
// its terminal result.
func (s *Session) Advance() (*RoundResult, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	if s.finished {
		return s.terminal, nil
	}

	round := s.rounds[s.current]
	if s.question < len(round.Questions) {
		return nil, nil
	}

	average := s.roundAverage(round.Key)
	passed := average >= s.policy(round)
	lastRound := s.current == len(s.rounds)-1

	if passed && !lastRound {
		s.current++
		s.question = 0
		return &RoundResult{
			Status:       RoundAdvanced,
			RoundKey:     round.Key,
			RoundName:    round.Name,
			AverageScore: average,
			Passed:       true,
		}, nil
	}

	s.finished = true
	s.terminal = &RoundResult{
		Status:       RoundEnded,
		RoundKey:     round.Key,
		RoundName:    round.Name,
		AverageScore: average,
		FinalRound:   lastRound,
		Passed:       passed,
	}

	return s.terminal, nil
}

// roundAverage computes the mean overall impression across the round's
// evaluations. Results without a numeric overall impression are excluded
// rather than counted as zero; a round with no scored evaluations averages
// 0.0 and therefore cannot pass.
func (s *Session) roundAverage(roundKey string) float64 {
	var sum float64
	var count int

	for _, ev := range s.evaluations {
		if ev.RoundKey != roundKey {
			continue
		}
		if score, ok := ev.Result.OverallImpression(); ok {
			sum += score
			count++
		}
	}

	if count == 0 {
		return 0.0
	}

	return sum / float64(count)
}

// Rounds returns the session's rounds.
func (s *Session) Rounds() []Round {
	rounds := make([]Round, len(s.rounds))
	copy(rounds, s.rounds)
	return rounds
}

// Evaluations returns a copy of the append-only evaluation log.
func (s *Session) Evaluations() []Evaluation {
	evals := make([]Evaluation, len(s.evaluations))
	copy(evals, s.evaluations)
	return evals
}

// Started reports whether Start has been called.
func (s *Session) Started() bool { return s.started }

// Finished reports whether the session reached its terminal state.
func (s *Session) Finished() bool { return s.finished }

// Cursor returns the current round and question indices.
func (s *Session) Cursor() (round, question int) {
	return s.current, s.question
}

// CurrentRound returns the round under the cursor, if the session is inside one.
func (s *Session) CurrentRound() (Round, bool) {
	if !s.started || s.finished || s.current >= len(s.rounds) {
		return Round{}, false
	}
	return s.rounds[s.current], true
}

// Snapshot captures the session's cursors, flags and terminal outcome for
// persistence. The evaluation log is persisted separately by the storage layer
// and replayed on Restore.
type Snapshot struct {
	CurrentRound    int  `json:"current_round"`
	CurrentQuestion int  `json:"current_question"`
	Started         bool `json:"started"`
	Finished        bool `json:"finished"`
	// Terminal is the result that ended a finished session. Persisting it
	// keeps the reported outcome stable even if the pass policy changes
	// between runs.
	Terminal *RoundResult `json:"terminal,omitempty"`
}

// Snapshot returns the current persistable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentRound:    s.current,
		CurrentQuestion: s.question,
		Started:         s.started,
		Finished:        s.finished,
	}
	if s.terminal != nil {
		terminal := *s.terminal
		snap.Terminal = &terminal
	}
	return snap
}

// Restore rebuilds a session from a snapshot and its replayed evaluation log.
// It rejects snapshots whose cursors are out of bounds or whose evaluations
// reference unknown rounds, so a corrupt store cannot produce a session that
// violates the state machine's invariants.
func Restore(rounds []Round, policy PassPolicy, snap Snapshot, evaluations []Evaluation) (*Session, error) {
	s, err := New(rounds, policy)
	if err != nil {
		return nil, err
	}

	// Advance never moves the cursor past the last round: a finished session
	// keeps its cursor on the round that ended it. A snapshot beyond that is
	// corrupt regardless of its flags.
	if snap.CurrentRound < 0 || snap.CurrentRound >= len(rounds) {
		return nil, fmt.Errorf("snapshot round index %d out of range", snap.CurrentRound)
	}
	if max := len(rounds[snap.CurrentRound].Questions); snap.CurrentQuestion < 0 || snap.CurrentQuestion > max {
		return nil, fmt.Errorf("snapshot question index %d out of range", snap.CurrentQuestion)
	}

	known := make(map[string]struct{}, len(rounds))
	for _, r := range rounds {
		known[r.Key] = struct{}{}
	}
	for _, ev := range evaluations {
		if _, ok := known[ev.RoundKey]; !ok {
			return nil, fmt.Errorf("evaluation references unknown round %q", ev.RoundKey)
		}
		if ev.Result == nil {
			return nil, ErrNilResult
		}
	}

	s.current = snap.CurrentRound
	s.question = snap.CurrentQuestion
	s.started = snap.Started
	s.finished = snap.Finished
	s.evaluations = make([]Evaluation, len(evaluations))
	copy(s.evaluations, evaluations)

	// Reinstate the terminal signal so Advance stays idempotent after a
	// restore. The persisted result wins over recomputing: it reflects the
	// policy in force when the session actually ended.
	if s.finished {
		if snap.Terminal != nil {
			terminal := *snap.Terminal
			s.terminal = &terminal
		} else {
			// Snapshots written before the outcome was persisted.
			round := s.rounds[s.current]
			average := s.roundAverage(round.Key)
			s.terminal = &RoundResult{
				Status:       RoundEnded,
				RoundKey:     round.Key,
				RoundName:    round.Name,
				AverageScore: average,
				FinalRound:   s.current == len(s.rounds)-1,
				Passed:       average >= s.policy(round),
			}
		}
	}

	return s, nil
}
