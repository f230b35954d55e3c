package challenge

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

// Answer is either a Text or a Choice.
type Answer interface {
	answer()
}

// Text answers an open question.
type Text string

// Choice answers a multiple-choice question by option index.
type Choice int

func (Text) answer()   {}
func (Choice) answer() {}

// DataIntegrityError means correctness could not be determined: the answer
// does not fit the challenge, or the challenge itself is malformed. Such an
// answer is scored as incorrect.
type DataIntegrityError struct {
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return "challenge data integrity: " + e.Reason
}

// Evaluate scores an answer. Open answers compare case-insensitively after
// trimming; choices are looked up by index.
func Evaluate(c bossflight.Challenge, a Answer) (bool, error) {
	switch c := c.(type) {
	case *bossflight.OpenQuestion:
		text, ok := a.(Text)
		if !ok {
			return false, &DataIntegrityError{Reason: fmt.Sprintf("%T answer to an open question", a)}
		}
		want := strings.TrimSpace(c.Answer)
		if want == "" {
			return false, &DataIntegrityError{Reason: "open question has no answer"}
		}
		return strings.EqualFold(strings.TrimSpace(string(text)), want), nil
	case *bossflight.MultipleChoice:
		choice, ok := a.(Choice)
		if !ok {
			return false, &DataIntegrityError{Reason: fmt.Sprintf("%T answer to a multiple-choice question", a)}
		}
		if int(choice) < 0 || int(choice) >= len(c.Options) {
			return false, &DataIntegrityError{Reason: fmt.Sprintf("option %d out of range (%d options)", choice, len(c.Options))}
		}
		return c.Options[choice].IsCorrect, nil
	default:
		return false, &DataIntegrityError{Reason: fmt.Sprintf("unsupported challenge %T", c)}
	}
}

// CorrectAnswer is the text shown after a wrong answer, or "" when the
// challenge does not reveal one.
func CorrectAnswer(c bossflight.Challenge) string {
	switch c := c.(type) {
	case *bossflight.OpenQuestion:
		return c.Answer
	case *bossflight.MultipleChoice:
		opt, ok := lo.Find(c.Options, func(o bossflight.Option) bool { return o.IsCorrect })
		if ok {
			return opt.Name
		}
	}
	return ""
}
