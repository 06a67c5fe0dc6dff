package form

import (
	"strings"

	"cardiochat/internal/catalog"
)

// Personalize substitutes the patient's name, read from answers under
// nameKey, for the {name} placeholder. Without a name the placeholder and the
// separator before it are dropped.
func Personalize(template string, answers AnswerSet, nameKey string) string {
	name := ""
	if nameKey != "" {
		name = answers.String(nameKey)
	}
	if name != "" {
		return strings.ReplaceAll(template, catalog.NamePlaceholder, name)
	}
	out := template
	for _, sep := range []string{", " + catalog.NamePlaceholder, " " + catalog.NamePlaceholder, catalog.NamePlaceholder} {
		out = strings.ReplaceAll(out, sep, "")
	}
	return out
}

// RenderPrompt builds the system text that asks for field: its intro
// (personalized, or the anonymous variant when no name is known yet)
// followed by the question label.
func RenderPrompt(field catalog.FieldSpec, answers AnswerSet, nameKey string) string {
	intro := field.Intro
	if field.IntroAnonymous != "" && (nameKey == "" || answers.String(nameKey) == "") {
		intro = field.IntroAnonymous
	}
	intro = Personalize(intro, answers, nameKey)
	if intro == "" {
		return field.Label
	}
	return intro + "\n" + field.Label
}
