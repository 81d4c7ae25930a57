package interview

import (
	"fmt"
	"regexp"
	"strings"
)

// Round is a named, ordered group of questions. Rounds are immutable once a
// session is created.
type Round struct {
	Key       string
	Name      string
	Questions []string
	Ordinal   int
}

// PlanRound is the raw round shape produced by the plan oracle, before
// normalization. Key may be empty; questions may contain blanks.
type PlanRound struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
}

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a round key from its display name.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlphaNum.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "round"
	}
	return s
}

// BuildRounds normalizes plan oracle output into session rounds: questions are
// trimmed and blanks dropped, rounds left without questions are discarded, and
// missing keys are derived from round names. A plan that yields zero usable
// rounds is a configuration failure, not a valid session.
func BuildRounds(planned []PlanRound) ([]Round, error) {
	rounds := make([]Round, 0, len(planned))
	seen := make(map[string]struct{}, len(planned))

	for _, p := range planned {
		questions := make([]string, 0, len(p.Questions))
		for _, q := range p.Questions {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			questions = append(questions, q)
		}

		if len(questions) == 0 {
			continue
		}

		key := strings.TrimSpace(p.Key)
		if key == "" {
			key = slugify(p.Name)
		}

		// Keys must be unique within a session.
		if _, dup := seen[key]; dup {
			key = fmt.Sprintf("%s_%d", key, len(rounds)+1)
		}
		seen[key] = struct{}{}

		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = key
		}

		rounds = append(rounds, Round{
			Key:       key,
			Name:      name,
			Questions: questions,
			Ordinal:   len(rounds),
		})
	}

	if len(rounds) == 0 {
		return nil, ErrEmptyPlan
	}

	return rounds, nil
}
