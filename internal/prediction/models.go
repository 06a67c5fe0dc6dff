package prediction

import (
	"encoding/json"
	"strings"
)

// Response is the prediction service reply. Explanation is left raw so the
// interpreter can tell structured objects from narrative strings.
type Response struct {
	Success     bool            `json:"success"`
	Explanation json.RawMessage `json:"explanation,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// errorBody is the FastAPI error envelope. Detail is a string for
// HTTPException and a list of objects for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (b errorBody) reason() string {
	if len(b.Detail) == 0 || string(b.Detail) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(b.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(b.Detail)
}
