// Package transcript holds the append-only chat history of a session.
package transcript

import (
	"encoding/json"
	"sync"

	"cardiochat/internal/explanation"
)

// Origin identifies who produced an entry.
type Origin string

const (
	OriginSystem Origin = "system"
	OriginUser   Origin = "user"
	OriginResult Origin = "result"
	OriginError  Origin = "error"
)

// Entry is one chat line.
type Entry struct {
	Text        string                   `json:"text"`
	Origin      Origin                   `json:"origin"`
	Structured  bool                     `json:"structured"`
	Explanation *explanation.Explanation `json:"explanation,omitempty"`
}

func System(text string) Entry { return Entry{Text: text, Origin: OriginSystem} }

func User(text string) Entry { return Entry{Text: text, Origin: OriginUser} }

func Error(text string) Entry { return Entry{Text: text, Origin: OriginError} }

// Result wraps an interpreted explanation and its formatted text.
func Result(exp *explanation.Explanation) Entry {
	return Entry{
		Text:        explanation.Format(exp),
		Origin:      OriginResult,
		Structured:  true,
		Explanation: exp,
	}
}

// Listener is told about every appended entry, in order. index is the
// entry's position in the transcript.
type Listener func(index int, e Entry)

// Transcript is an ordered sequence of entries. Append is the only mutator;
// entries are never edited, removed or reordered.
type Transcript struct {
	// appendMu serialises Append so listeners observe entries in order.
	appendMu  sync.Mutex
	mu        sync.RWMutex
	entries   []Entry
	listeners []Listener
}

func New(listeners ...Listener) *Transcript {
	return &Transcript{listeners: listeners}
}

// Append adds entries at the end, then notifies listeners.
func (t *Transcript) Append(entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	t.appendMu.Lock()
	defer t.appendMu.Unlock()

	t.mu.Lock()
	start := len(t.entries)
	t.entries = append(t.entries, entries...)
	t.mu.Unlock()

	for i, e := range entries {
		for _, l := range t.listeners {
			l(start+i, e)
		}
	}
}

// Entries returns a copy of the current entries.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Last returns the most recent entry.
func (t *Transcript) Last() (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Count returns how many entries have the given origin.
func (t *Transcript) Count(origin Origin) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, e := range t.entries {
		if e.Origin == origin {
			n++
		}
	}
	return n
}

func (t *Transcript) MarshalJSON() ([]byte, error) {
	entries := t.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}
