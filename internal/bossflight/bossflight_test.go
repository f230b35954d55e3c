package bossflight

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{in: "easy", want: DifficultyEasy},
		{in: " Hard ", want: DifficultyHard},
		{in: "MEDIUM", want: DifficultyMedium},
		{in: "nightmare", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDifficulty(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDifficulty) {
					t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionIDDecodesNumbersAndStrings(t *testing.T) {
	var v struct {
		ID SessionID `json:"session_id"`
	}

	if err := json.Unmarshal([]byte(`{"session_id": 76}`), &v); err != nil {
		t.Fatalf("numeric id: %v", err)
	}
	if v.ID != "76" {
		t.Errorf("expected 76, got %q", v.ID)
	}

	if err := json.Unmarshal([]byte(`{"session_id": "b1946ac9"}`), &v); err != nil {
		t.Fatalf("string id: %v", err)
	}
	if v.ID != "b1946ac9" {
		t.Errorf("expected b1946ac9, got %q", v.ID)
	}

	if err := json.Unmarshal([]byte(`{"session_id": null}`), &v); err != nil {
		t.Fatalf("null id: %v", err)
	}
	if !v.ID.IsZero() {
		t.Errorf("expected zero id, got %q", v.ID)
	}
}

func TestSessionIDEncoding(t *testing.T) {
	tests := []struct {
		id       SessionID
		expected string
	}{
		{"42", `{"id":42}`},
		{"0", `{"id":0}`},
		{"a-42", `{"id":"a-42"}`},
		{"007", `{"id":"007"}`},
		{"00", `{"id":"00"}`},
		{"", `{"id":""}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			b, err := json.Marshal(struct {
				ID SessionID `json:"id"`
			}{tt.id})
			if err != nil {
				t.Fatalf("marshal %q: %v", tt.id, err)
			}
			if string(b) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, b)
			}

			var back struct {
				ID SessionID `json:"id"`
			}
			if err := json.Unmarshal(b, &back); err != nil {
				t.Fatalf("unmarshal %s: %v", b, err)
			}
			if back.ID != tt.id {
				t.Errorf("expected %q after decoding, got %q", tt.id, back.ID)
			}
		})
	}
}

func TestDecodeChallenge(t *testing.T) {
	c, err := DecodeChallenge([]byte(`{"type":"open_question","question":"Capital of Finland?","answer":"Helsinki"}`))
	if err != nil {
		t.Fatalf("open question: %v", err)
	}
	oq, ok := c.(*OpenQuestion)
	if !ok {
		t.Fatalf("expected *OpenQuestion, got %T", c)
	}
	if oq.Answer != "Helsinki" || oq.Prompt() != "Capital of Finland?" {
		t.Errorf("unexpected open question %+v", oq)
	}

	c, err = DecodeChallenge([]byte(`{"type":"multiple_choice","question":"Largest ocean?","options":[{"name":"Atlantic","is_correct":false},{"name":"Pacific","is_correct":true}]}`))
	if err != nil {
		t.Fatalf("multiple choice: %v", err)
	}
	mc, ok := c.(*MultipleChoice)
	if !ok {
		t.Fatalf("expected *MultipleChoice, got %T", c)
	}
	if len(mc.Options) != 2 || !mc.Options[1].IsCorrect {
		t.Errorf("unexpected options %+v", mc.Options)
	}

	if c, err := DecodeChallenge([]byte("null")); c != nil || err != nil {
		t.Errorf("null body: expected nil challenge and nil error, got %v, %v", c, err)
	}

	if _, err := DecodeChallenge([]byte(`{"type":"riddle"}`)); !errors.Is(err, ErrUnknownChallenge) {
		t.Errorf("expected ErrUnknownChallenge, got %v", err)
	}
}

func TestEncodeChallengeMatchesWireForm(t *testing.T) {
	b, err := EncodeChallenge(&OpenQuestion{Question: "Q", Answer: "A"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c, err := DecodeChallenge(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Kind() != KindOpenQuestion {
		t.Errorf("expected open_question, got %s", c.Kind())
	}
}

func TestAtBoss(t *testing.T) {
	a := &Airport{ID: 1}
	z := &Airport{ID: 26}
	if (GameState{CurrentAirport: a, BossAirport: z}).AtBoss() {
		t.Error("expected not at boss")
	}
	if !(GameState{CurrentAirport: &Airport{ID: 26}, BossAirport: z}).AtBoss() {
		t.Error("expected at boss")
	}
	if (GameState{BossAirport: z}).AtBoss() {
		t.Error("missing current airport must not count as arrival")
	}
}
