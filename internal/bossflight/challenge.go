package bossflight

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type ChallengeKind string

const (
	KindOpenQuestion   ChallengeKind = "open_question"
	KindMultipleChoice ChallengeKind = "multiple_choice"
)

var ErrUnknownChallenge = errors.New("unknown challenge type")

// Challenge is either an *OpenQuestion or a *MultipleChoice. The set is
// closed; callers switch on the concrete type.
type Challenge interface {
	Kind() ChallengeKind
	Prompt() string
	challenge()
}

type OpenQuestion struct {
	Question string
	Answer   string
}

func (q *OpenQuestion) Kind() ChallengeKind { return KindOpenQuestion }
func (q *OpenQuestion) Prompt() string      { return q.Question }
func (*OpenQuestion) challenge()            {}

type Option struct {
	Name      string `json:"name" yaml:"name"`
	IsCorrect bool   `json:"is_correct" yaml:"is_correct"`
}

type MultipleChoice struct {
	Question string
	Options  []Option
}

func (q *MultipleChoice) Kind() ChallengeKind { return KindMultipleChoice }
func (q *MultipleChoice) Prompt() string      { return q.Question }
func (*MultipleChoice) challenge()            {}

type challengeWire struct {
	Type     ChallengeKind `json:"type"`
	Question string        `json:"question"`
	Answer   string        `json:"answer,omitempty"`
	Options  []Option      `json:"options,omitempty"`
}

// DecodeChallenge parses the wire form. An empty or null body yields a nil
// challenge and no error: the service simply has nothing to ask right now.
func DecodeChallenge(data []byte) (Challenge, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var w challengeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding challenge: %w", err)
	}
	switch w.Type {
	case KindOpenQuestion:
		return &OpenQuestion{Question: w.Question, Answer: w.Answer}, nil
	case KindMultipleChoice:
		return &MultipleChoice{Question: w.Question, Options: w.Options}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChallenge, w.Type)
	}
}

func EncodeChallenge(c Challenge) ([]byte, error) {
	switch c := c.(type) {
	case *OpenQuestion:
		return json.Marshal(challengeWire{Type: KindOpenQuestion, Question: c.Question, Answer: c.Answer})
	case *MultipleChoice:
		return json.Marshal(challengeWire{Type: KindMultipleChoice, Question: c.Question, Options: c.Options})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownChallenge, c)
	}
}
