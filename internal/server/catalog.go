package server

import (
	"embed"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/tuukkaea/bossflight/internal/bossflight"
)

//go:embed seed/*.yaml
var seedFS embed.FS

type openQuestionSeed struct {
	Difficulty bossflight.Difficulty `yaml:"difficulty"`
	Question   string                `yaml:"question"`
	Answer     string                `yaml:"answer"`
}

type multipleChoiceSeed struct {
	Difficulty bossflight.Difficulty `yaml:"difficulty"`
	Question   string                `yaml:"question"`
	Options    []bossflight.Option   `yaml:"options"`
}

type questionBank struct {
	Open     []openQuestionSeed   `yaml:"open_questions"`
	Multiple []multipleChoiceSeed `yaml:"multiple_choice"`
}

// Catalog is the read-only reference data the game is played on.
type Catalog struct {
	Airports  []bossflight.Airport
	Questions questionBank
}

var errCatalog = errors.New("invalid catalog")

// LoadCatalog decodes the embedded airport list and question bank.
func LoadCatalog() (*Catalog, error) {
	airports, err := seedFS.ReadFile("seed/airports.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading airports: %w", err)
	}
	questions, err := seedFS.ReadFile("seed/questions.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading questions: %w", err)
	}
	return ParseCatalog(airports, questions)
}

// ParseCatalog builds a catalog from YAML documents. At least two airports
// are needed so the boss can differ from the start.
func ParseCatalog(airportsYAML, questionsYAML []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(airportsYAML, &c.Airports); err != nil {
		return nil, fmt.Errorf("decoding airports: %w", err)
	}
	if err := yaml.Unmarshal(questionsYAML, &c.Questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}

	if len(c.Airports) < 2 {
		return nil, fmt.Errorf("%w: need at least two airports, got %d", errCatalog, len(c.Airports))
	}
	if dups := lo.FindDuplicatesBy(c.Airports, func(a bossflight.Airport) int { return a.ID }); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate airport id %d", errCatalog, dups[0].ID)
	}
	for _, q := range c.Questions.Open {
		if !q.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: question %q: %w", errCatalog, q.Question, bossflight.ErrInvalidDifficulty)
		}
	}
	for _, q := range c.Questions.Multiple {
		if !q.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: question %q: %w", errCatalog, q.Question, bossflight.ErrInvalidDifficulty)
		}
		if lo.CountBy(q.Options, func(o bossflight.Option) bool { return o.IsCorrect }) != 1 {
			return nil, fmt.Errorf("%w: question %q needs exactly one correct option", errCatalog, q.Question)
		}
	}
	return &c, nil
}

func (c *Catalog) Airport(id int) (bossflight.Airport, bool) {
	return lo.Find(c.Airports, func(a bossflight.Airport) bool { return a.ID == id })
}

// randomChallenge picks an open or multiple-choice question of the given
// difficulty, falling back to the other kind when one has none. A nil
// result means the bank has nothing for that difficulty.
func (c *Catalog) randomChallenge(d bossflight.Difficulty, preferOpen bool) bossflight.Challenge {
	open := lo.Filter(c.Questions.Open, func(q openQuestionSeed, _ int) bool { return q.Difficulty == d })
	multiple := lo.Filter(c.Questions.Multiple, func(q multipleChoiceSeed, _ int) bool { return q.Difficulty == d })

	if len(open) > 0 && (preferOpen || len(multiple) == 0) {
		q := lo.Sample(open)
		return &bossflight.OpenQuestion{Question: q.Question, Answer: q.Answer}
	}
	if len(multiple) > 0 {
		q := lo.Sample(multiple)
		return &bossflight.MultipleChoice{Question: q.Question, Options: lo.Samples(q.Options, len(q.Options))}
	}
	return nil
}
