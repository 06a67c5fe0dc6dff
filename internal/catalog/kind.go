package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the closed set of input kinds a question can have. Code that
// dispatches on Kind switches over every constant and treats anything else
// as a programming error.
type Kind int

const (
	KindText Kind = iota + 1
	KindInteger
	KindDecimal
	KindChoice
)

var kindNames = map[Kind]string{
	KindText:    "text",
	KindInteger: "integer",
	KindDecimal: "decimal",
	KindChoice:  "choice",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Numeric reports whether k carries a min/max range.
func (k Kind) Numeric() bool {
	return k == KindInteger || k == KindDecimal
}

// ParseKind accepts the canonical names plus the aliases used by form
// definitions written for web frontends ("number", "float", "select").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string":
		return KindText, nil
	case "integer", "int", "number":
		return KindInteger, nil
	case "decimal", "float":
		return KindDecimal, nil
	case "choice", "select":
		return KindChoice, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q", s)
	}
}

func (k Kind) MarshalYAML() (interface{}, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", k)
	}
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}
