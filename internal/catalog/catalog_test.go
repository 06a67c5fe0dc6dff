package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "cardiochat/internal/common/errors"
)

func TestBuiltin(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		nameKey  string
		lastKind Kind
	}{
		{Basic, []string{"nome", "age", "gender", "height", "weight", "smoker"}, "nome", KindChoice},
		{Cardio, []string{"user_id", "age", "gender", "height", "weight", "ap_hi", "ap_lo", "cholesterol", "gluc", "smoke", "alco", "active"}, "user_id", KindChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Builtin(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.keys, c.Keys())
			assert.Equal(t, tt.nameKey, c.NameKey())
			assert.Equal(t, len(tt.keys), c.Len())
			assert.Equal(t, tt.lastKind, c.Field(c.Len()-1).Kind)
			assert.Equal(t, "Dados enviados. Aguarde a análise...", c.SubmittingMessage())
		})
	}

	_, err := Builtin("nope")
	assert.Error(t, err)
	assert.Equal(t, []string{Basic, Cardio}, BuiltinNames())
}

func TestFieldSpec_Option(t *testing.T) {
	c, err := Builtin(Basic)
	require.NoError(t, err)

	smoker, ok := c.Lookup("smoker")
	require.True(t, ok)

	opt, ok := smoker.Option(" TRUE ")
	require.True(t, ok)
	assert.Equal(t, true, opt.Value)
	assert.Equal(t, "Sim 👍", opt.Label)

	_, ok = smoker.Option("Sim 👍")
	assert.False(t, ok, "labels are not selection keys")
}

func TestFieldSpec_Messages(t *testing.T) {
	assert.Equal(t, "Campo obrigatório", FieldSpec{}.RequiredMessage())
	assert.Equal(t, "Valor inválido", FieldSpec{}.InvalidMessage())
	f := FieldSpec{Messages: Messages{Required: "Selecione o gênero"}}
	assert.Equal(t, "Selecione o gênero", f.InvalidMessage())
}

func TestNew_Invalid(t *testing.T) {
	text := FieldSpec{Key: "nome", Label: "Nome?", Kind: KindText}

	tests := []struct {
		name    string
		nameKey string
		fields  []FieldSpec
	}{
		{"no fields", "", nil},
		{"duplicate keys", "", []FieldSpec{text, text}},
		{"missing label", "", []FieldSpec{{Key: "a", Kind: KindText}}},
		{"inverted bounds", "", []FieldSpec{{Key: "a", Label: "A", Kind: KindInteger, Min: Bound(10), Max: Bound(1)}}},
		{"choice without options", "", []FieldSpec{{Key: "a", Label: "A", Kind: KindChoice}}},
		{"choice with range", "", []FieldSpec{{Key: "a", Label: "A", Kind: KindChoice, Min: Bound(1), Options: []Option{{Value: 1, Label: "x"}}}}},
		{"duplicate options", "", []FieldSpec{{Key: "a", Label: "A", Kind: KindChoice, Options: []Option{{Value: 1, Label: "x"}, {Value: "1", Label: "y"}}}}},
		{"unknown kind", "", []FieldSpec{{Key: "a", Label: "A"}}},
		{"name key missing", "who", []FieldSpec{text}},
		{"name key not text", "a", []FieldSpec{{Key: "a", Label: "A", Kind: KindInteger}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", tt.nameKey, "", tt.fields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, stderrors.ErrCatalogInvalid))
		})
	}
}

func TestCatalog_FieldsIsACopy(t *testing.T) {
	c, err := Builtin(Basic)
	require.NoError(t, err)

	fields := c.Fields()
	fields[0].Key = "changed"
	assert.Equal(t, "nome", c.Field(0).Key)
}

const sampleYAML = `
name: triage
name_key: nickname
submitting_message: Enviando...
fields:
  - key: nickname
    label: Como te chamamos?
    kind: text
  - key: age
    label: Idade?
    intro: "Oi {name}!"
    intro_anonymous: "Oi!"
    kind: number
    min: 1
    max: 120
    messages:
      invalid: Idade inválida
  - key: smoker
    label: Fuma?
    kind: select
    options:
      - {value: true, label: Sim}
      - {value: false, label: Não}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "triage", c.Name())
	assert.Equal(t, "nickname", c.NameKey())
	assert.Equal(t, "Enviando...", c.SubmittingMessage())
	assert.Equal(t, []string{"nickname", "age", "smoker"}, c.Keys())

	age := c.Field(1)
	assert.Equal(t, KindInteger, age.Kind)
	require.NotNil(t, age.Min)
	assert.Equal(t, 1.0, *age.Min)
	assert.Equal(t, "Idade inválida", age.InvalidMessage())

	smoker := c.Field(2)
	assert.Equal(t, KindChoice, smoker.Kind)
	assert.Equal(t, true, smoker.Options[0].Value)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("name: x\nfields:\n  - key: a\n    label: A\n    kind: slider\n"))
	assert.True(t, errors.Is(err, stderrors.ErrCatalogInvalid))

	_, err = Parse([]byte("name: x\nfields:\n  - key: a\n    label: A\n    kind: text\n    colour: red\n"))
	assert.True(t, errors.Is(err, stderrors.ErrCatalogInvalid), "unknown keys are rejected")
}

func TestLoadAndMarshal_RoundTrip(t *testing.T) {
	orig, err := Builtin(Cardio)
	require.NoError(t, err)

	data, err := Marshal(orig)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cardio.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Keys(), loaded.Keys())
	assert.Equal(t, orig.NameKey(), loaded.NameKey())
	assert.Equal(t, orig.Field(7).Options, loaded.Field(7).Options)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"text": KindText, "number": KindInteger, "float": KindDecimal, "select": KindChoice, " Choice ": KindChoice,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("date")
	assert.Error(t, err)
	assert.Equal(t, "Kind(0)", Kind(0).String())
}
