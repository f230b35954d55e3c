package bossflight

import (
	"encoding/json"
	"strings"
)

// SessionID is an opaque session identifier. Older backends issue integer
// ids, so it decodes from a JSON number as well as a string. Ids that read as
// a canonical integer are encoded back as numbers; anything else, including
// digits with a leading zero, stays a string.
type SessionID string

func (id SessionID) String() string { return string(id) }

func (id SessionID) IsZero() bool { return id == "" }

func (id SessionID) numeric() bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	return strings.IndexFunc(string(id), func(r rune) bool { return r < '0' || r > '9' }) < 0
}

func (id SessionID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *SessionID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = SessionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = SessionID(n.String())
	return nil
}
