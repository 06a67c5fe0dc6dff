package explanation

import (
	"bytes"
	"encoding/json"
	"strings"

	stderrors "cardiochat/internal/common/errors"
)

// Interpret converts the explanation field of a prediction response into an
// Explanation. Objects pass through as supplied, with mistyped scalars read
// leniently; strings are segmented as narrative; any other JSON value, or an
// object whose structure cannot be decoded, is treated as narrative of its
// raw text.
// Only an absent, null or blank payload is an error (NO_EXPLANATION).
func Interpret(raw json.RawMessage) (*Explanation, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, stderrors.NewNoExplanationError()
	}

	switch trimmed[0] {
	case '{':
		var exp Explanation
		if err := json.Unmarshal(trimmed, &exp); err != nil {
			return FromNarrative(string(trimmed)), nil
		}
		if exp.ContributingFactors == nil {
			exp.ContributingFactors = []Factor{}
		}
		if exp.Recommendations == nil {
			exp.Recommendations = []Recommendation{}
		}
		return &exp, nil
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return FromNarrative(string(trimmed)), nil
		}
		return InterpretText(text)
	default:
		return FromNarrative(string(trimmed)), nil
	}
}

// InterpretText segments a narrative, failing only when it is blank.
func InterpretText(text string) (*Explanation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, stderrors.NewNoExplanationError()
	}
	return FromNarrative(text), nil
}
