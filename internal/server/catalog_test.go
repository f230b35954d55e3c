package server

import (
	"errors"
	"testing"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	if len(c.Airports) < 2 {
		t.Fatalf("expected at least two airports, got %d", len(c.Airports))
	}
	for _, d := range []bossflight.Difficulty{bossflight.DifficultyEasy, bossflight.DifficultyMedium, bossflight.DifficultyHard} {
		if c.randomChallenge(d, true) == nil {
			t.Errorf("expected an open question for %s", d)
		}
		if _, ok := c.randomChallenge(d, false).(*bossflight.MultipleChoice); !ok {
			t.Errorf("expected a multiple-choice question for %s", d)
		}
	}

	hel, ok := c.Airport(1)
	if !ok || hel.IATACode != "HEL" {
		t.Errorf("expected airport 1 to be HEL, got %+v", hel)
	}
	if _, ok := c.Airport(-1); ok {
		t.Error("expected no airport for id -1")
	}
}

func TestParseCatalogErrors(t *testing.T) {
	twoAirports := []byte("- {id: 1, name: A}\n- {id: 2, name: B}\n")

	tests := []struct {
		name      string
		airports  string
		questions string
	}{
		{"one airport", "- {id: 1, name: A}\n", ""},
		{"duplicate ids", "- {id: 1, name: A}\n- {id: 1, name: B}\n", ""},
		{"bad difficulty", string(twoAirports), "open_questions:\n  - {difficulty: extreme, question: Q, answer: A}\n"},
		{"two correct options", string(twoAirports), "multiple_choice:\n  - difficulty: easy\n    question: Q\n    options: [{name: a, is_correct: true}, {name: b, is_correct: true}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.airports), []byte(tt.questions))
			if !errors.Is(err, errCatalog) {
				t.Errorf("expected errCatalog, got %v", err)
			}
		})
	}
}

func TestRandomChallengeFallsBack(t *testing.T) {
	c, err := ParseCatalog(
		[]byte("- {id: 1, name: A}\n- {id: 2, name: B}\n"),
		[]byte("open_questions:\n  - {difficulty: easy, question: Q, answer: A}\n"),
	)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}

	if _, ok := c.randomChallenge(bossflight.DifficultyEasy, false).(*bossflight.OpenQuestion); !ok {
		t.Error("expected fallback to an open question")
	}
	if got := c.randomChallenge(bossflight.DifficultyHard, true); got != nil {
		t.Errorf("expected no challenge for hard, got %+v", got)
	}
}
