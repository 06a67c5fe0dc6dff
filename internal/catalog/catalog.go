// Package catalog defines the ordered question catalogs that drive a session.
package catalog

import (
	"fmt"
	"strings"

	stderrors "cardiochat/internal/common/errors"
)

// NamePlaceholder is the only token substituted in question intros.
const NamePlaceholder = "{name}"

const (
	defaultRequiredMessage   = "Campo obrigatório"
	defaultInvalidMessage    = "Valor inválido"
	defaultSubmittingMessage = "Dados enviados. Aguarde a análise..."
)

// Option is one selectable answer of a choice field. Value is what gets sent
// to the prediction service; Label is what the user sees.
type Option struct {
	Value interface{} `yaml:"value" json:"value"`
	Label string      `yaml:"label" json:"label"`
}

// Key is the textual form of Value that users type to select the option.
func (o Option) Key() string {
	return fmt.Sprint(o.Value)
}

// Messages holds the field-specific error texts.
type Messages struct {
	Required string `yaml:"required" json:"required,omitempty"`
	Invalid  string `yaml:"invalid" json:"invalid,omitempty"`
}

// FieldSpec is one question.
type FieldSpec struct {
	Key            string   `yaml:"key" json:"key"`
	Label          string   `yaml:"label" json:"label"`
	Intro          string   `yaml:"intro,omitempty" json:"intro,omitempty"`
	IntroAnonymous string   `yaml:"intro_anonymous,omitempty" json:"introAnonymous,omitempty"`
	Kind           Kind     `yaml:"kind" json:"kind"`
	Min            *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max            *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Options        []Option `yaml:"options,omitempty" json:"options,omitempty"`
	Messages       Messages `yaml:"messages,omitempty" json:"messages,omitempty"`
	Placeholder    string   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// RequiredMessage is shown when the answer is empty.
func (f FieldSpec) RequiredMessage() string {
	if f.Messages.Required != "" {
		return f.Messages.Required
	}
	if f.Messages.Invalid != "" {
		return f.Messages.Invalid
	}
	return defaultRequiredMessage
}

// InvalidMessage is shown when the answer fails the kind's constraints.
func (f FieldSpec) InvalidMessage() string {
	if f.Messages.Invalid != "" {
		return f.Messages.Invalid
	}
	if f.Messages.Required != "" {
		return f.Messages.Required
	}
	return defaultInvalidMessage
}

// Option returns the option whose key matches key, ignoring case and
// surrounding whitespace.
func (f FieldSpec) Option(key string) (Option, bool) {
	key = strings.TrimSpace(key)
	for _, opt := range f.Options {
		if strings.EqualFold(opt.Key(), key) {
			return opt, true
		}
	}
	return Option{}, false
}

// Catalog is an immutable ordered list of questions.
type Catalog struct {
	name              string
	nameKey           string
	submittingMessage string
	fields            []FieldSpec
	index             map[string]int
}

// New builds and validates a catalog. nameKey may be empty when no field
// personalizes later prompts.
func New(name, nameKey, submittingMessage string, fields []FieldSpec) (*Catalog, error) {
	if submittingMessage == "" {
		submittingMessage = defaultSubmittingMessage
	}
	c := &Catalog{
		name:              name,
		nameKey:           nameKey,
		submittingMessage: submittingMessage,
		fields:            append([]FieldSpec(nil), fields...),
		index:             make(map[string]int, len(fields)),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if strings.TrimSpace(c.name) == "" {
		return stderrors.NewCatalogInvalidError("catalog name is required")
	}
	if len(c.fields) == 0 {
		return stderrors.NewCatalogInvalidError(fmt.Sprintf("catalog %q has no fields", c.name))
	}

	for i, f := range c.fields {
		if err := validateField(f); err != nil {
			return stderrors.NewCatalogInvalidError(fmt.Sprintf("catalog %q field %d: %v", c.name, i, err))
		}
		if _, dup := c.index[f.Key]; dup {
			return stderrors.NewCatalogInvalidError(fmt.Sprintf("catalog %q: duplicate key %q", c.name, f.Key))
		}
		c.index[f.Key] = i
	}

	if c.nameKey != "" {
		i, ok := c.index[c.nameKey]
		if !ok {
			return stderrors.NewCatalogInvalidError(fmt.Sprintf("catalog %q: name key %q is not a field", c.name, c.nameKey))
		}
		if c.fields[i].Kind != KindText {
			return stderrors.NewCatalogInvalidError(fmt.Sprintf("catalog %q: name key %q must be a text field", c.name, c.nameKey))
		}
	}
	return nil
}

func validateField(f FieldSpec) error {
	if strings.TrimSpace(f.Key) == "" {
		return fmt.Errorf("key is required")
	}
	if strings.TrimSpace(f.Label) == "" {
		return fmt.Errorf("%s: label is required", f.Key)
	}

	switch f.Kind {
	case KindText:
		if f.Min != nil || f.Max != nil || len(f.Options) > 0 {
			return fmt.Errorf("%s: text fields take no range or options", f.Key)
		}
	case KindInteger, KindDecimal:
		if len(f.Options) > 0 {
			return fmt.Errorf("%s: numeric fields take no options", f.Key)
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fmt.Errorf("%s: min %v is greater than max %v", f.Key, *f.Min, *f.Max)
		}
	case KindChoice:
		if f.Min != nil || f.Max != nil {
			return fmt.Errorf("%s: choice fields take no range", f.Key)
		}
		if len(f.Options) == 0 {
			return fmt.Errorf("%s: choice fields need at least one option", f.Key)
		}
		seen := make(map[string]bool, len(f.Options))
		for _, opt := range f.Options {
			key := strings.ToLower(opt.Key())
			if opt.Value == nil || key == "" {
				return fmt.Errorf("%s: option value is required", f.Key)
			}
			if strings.TrimSpace(opt.Label) == "" {
				return fmt.Errorf("%s: option %q has no label", f.Key, opt.Key())
			}
			if seen[key] {
				return fmt.Errorf("%s: duplicate option %q", f.Key, opt.Key())
			}
			seen[key] = true
		}
	default:
		return fmt.Errorf("%s: unsupported kind %s", f.Key, f.Kind)
	}
	return nil
}

func (c *Catalog) Name() string { return c.name }

// NameKey is the key of the text field whose answer personalizes prompts.
func (c *Catalog) NameKey() string { return c.nameKey }

// SubmittingMessage is the system text emitted when the last answer is accepted.
func (c *Catalog) SubmittingMessage() string { return c.submittingMessage }

func (c *Catalog) Len() int { return len(c.fields) }

// Field returns the question at step i.
func (c *Catalog) Field(i int) FieldSpec { return c.fields[i] }

// Lookup returns the question with the given key.
func (c *Catalog) Lookup(key string) (FieldSpec, bool) {
	i, ok := c.index[key]
	if !ok {
		return FieldSpec{}, false
	}
	return c.fields[i], true
}

// Fields returns a copy of the ordered questions.
func (c *Catalog) Fields() []FieldSpec {
	return append([]FieldSpec(nil), c.fields...)
}

// Keys returns the field keys in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.fields))
	for i, f := range c.fields {
		keys[i] = f.Key
	}
	return keys
}

// Bound is a helper for building *float64 range limits.
func Bound(v float64) *float64 { return &v }
