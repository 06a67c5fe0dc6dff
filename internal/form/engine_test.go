package form

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiochat/internal/catalog"
	stderrors "cardiochat/internal/common/errors"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/transcript"
)

func twoFieldCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("pair", "name", "", []catalog.FieldSpec{
		{Key: "name", Label: "Qual o seu nome?", Kind: catalog.KindText,
			Messages: catalog.Messages{Required: "Informe o nome.", Invalid: "Nome muito curto."}},
		{Key: "age", Label: "Qual a sua idade?", Intro: "Perfeito, {name}!", IntroAnonymous: "Perfeito!",
			Kind: catalog.KindInteger, Min: catalog.Bound(1), Max: catalog.Bound(120),
			Messages: catalog.Messages{Invalid: "Idade inválida"}},
	})
	require.NoError(t, err)
	return c
}

func basicEngine(t *testing.T) *Engine {
	t.Helper()
	c, err := catalog.Builtin(catalog.Basic)
	require.NoError(t, err)
	return NewEngine(c, logger.NewNoOpLogger())
}

// run feeds inputs through the engine the way a session does.
func run(t *testing.T, e *Engine, inputs ...string) (State, []transcript.Entry, []error) {
	t.Helper()
	state, entries := e.Start()
	var errs []error
	for _, in := range inputs {
		tr, err := e.Submit(state, in)
		state = tr.State
		entries = append(entries, tr.Entries...)
		errs = append(errs, err)
	}
	return state, entries, errs
}

func TestEngine_EndToEndScenario(t *testing.T) {
	e := NewEngine(twoFieldCatalog(t), logger.NewNoOpLogger())

	state, entries, errs := run(t, e, "Ana", "200", "45")

	require.NoError(t, errs[0])
	assert.True(t, errors.Is(errs[1], stderrors.ErrValidation))
	require.NoError(t, errs[2])

	want := []transcript.Entry{
		transcript.System("Qual o seu nome?"),
		transcript.User("Ana"),
		transcript.System("Perfeito, Ana!\nQual a sua idade?"),
		transcript.Error("Idade inválida"),
		transcript.User("45"),
		transcript.System("Dados enviados. Aguarde a análise..."),
	}
	assert.Equal(t, want, entries)

	assert.True(t, state.Complete)
	assert.Equal(t, map[string]interface{}{"name": "Ana", "age": 45}, state.Answers.Map())

	data, err := json.Marshal(state.Answers)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ana","age":45}`, string(data))
}

func TestEngine_CompletedExposedExactlyOnce(t *testing.T) {
	e := basicEngine(t)
	state, _ := e.Start()

	inputs := []string{"Ana", "45", "female", "165", "62,5", "false"}
	completions := 0
	for i, in := range inputs {
		tr, err := e.Submit(state, in)
		require.NoError(t, err, inputs[i])
		if tr.Completed != nil {
			completions++
			assert.Equal(t, len(inputs), tr.Completed.Len())
		}
		state = tr.State
	}
	assert.Equal(t, 1, completions)
	assert.True(t, state.Complete)
	assert.Equal(t, len(inputs), state.Answers.Len())
	assert.Equal(t, []string{"nome", "age", "gender", "height", "weight", "smoker"}, state.Answers.Keys())

	weight, _ := state.Answers.Get("weight")
	assert.Equal(t, 62.5, weight)
	smoker, _ := state.Answers.Get("smoker")
	assert.Equal(t, false, smoker)

	tr, err := e.Submit(state, "anything")
	assert.True(t, errors.Is(err, stderrors.ErrSessionComplete))
	assert.Empty(t, tr.Entries)
	assert.Nil(t, tr.Completed)
	assert.Equal(t, state, tr.State)
}

func TestEngine_InvalidAnswerIsIdempotent(t *testing.T) {
	e := basicEngine(t)
	state, _, _ := run(t, e, "Ana")

	first, err1 := e.Submit(state, "abc")
	second, err2 := e.Submit(state, "abc")

	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, state, first.State)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, 1, state.Answers.Len())
	assert.Equal(t, 1, first.State.Step)
}

func TestEngine_PersonalizesPromptsWithName(t *testing.T) {
	e := basicEngine(t)
	_, entries, _ := run(t, e, "Bia", "30")

	require.Len(t, entries, 5)
	assert.Equal(t, "Perfeito, Bia! Agora me conte sua idade. Isso é essencial para sua análise! 🎂\n🎂 Qual a sua idade?", entries[2].Text)
	assert.Contains(t, entries[4].Text, "Ótimo, Bia!")
}

func TestEngine_ChoiceStoresValueShowsLabel(t *testing.T) {
	e := basicEngine(t)
	state, entries, errs := run(t, e, "Ana", "45", "FEMALE")

	require.NoError(t, errs[2])
	assert.Equal(t, transcript.User("Feminino 👩"), entries[len(entries)-2])
	gender, _ := state.Answers.Get("gender")
	assert.Equal(t, "female", gender)
}

func TestEngine_ValidationMessages(t *testing.T) {
	e := basicEngine(t)
	state, _ := e.Start()

	tr, err := e.Submit(state, "   ")
	require.Error(t, err)
	assert.Equal(t, []transcript.Entry{transcript.Error("Por favor, informe o nome ou apelido.")}, tr.Entries)

	tr, err = e.Submit(state, "A")
	require.Error(t, err)
	assert.Equal(t, []transcript.Entry{transcript.Error("Nome muito curto. Informe pelo menos 2 caracteres.")}, tr.Entries)
}

func TestEngine_StartAndCurrentField(t *testing.T) {
	e := basicEngine(t)
	state, entries := e.Start()

	assert.Equal(t, 0, state.Step)
	require.Len(t, entries, 1)
	assert.Equal(t, transcript.OriginSystem, entries[0].Origin)
	assert.Equal(t, "Que bom te conhecer! 😊 Vamos começar sua jornada de saúde.\n👋 Como você deseja ser chamado?", entries[0].Text)

	field, ok := e.CurrentField(state)
	require.True(t, ok)
	assert.Equal(t, "nome", field.Key)

	_, ok = e.CurrentField(State{Complete: true})
	assert.False(t, ok)
	assert.Equal(t, "", e.Prompt(State{Complete: true}))
}
