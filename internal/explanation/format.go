package explanation

import (
	"fmt"
	"strconv"
	"strings"
)

const reportTitle = "🏥 **Análise Cardiovascular Completa**"

// Format renders an explanation as the chat text of a result entry. Sections
// are separated by blank lines; empty sections are omitted.
func Format(exp *Explanation) string {
	if exp == nil {
		return ""
	}

	sections := []string{reportTitle}

	var head []string
	if exp.PatientName != "" {
		head = append(head, fmt.Sprintf("👤 **Paciente:** %s", exp.PatientName))
	}
	if exp.RiskLevel != "" || exp.RiskScore != 0 {
		score := strconv.FormatFloat(exp.RiskScore, 'f', -1, 64)
		if exp.RiskLevel != "" {
			score = fmt.Sprintf("%s (%s)", score, exp.RiskLevel)
		}
		head = append(head, fmt.Sprintf("📊 **Score de Risco:** %s", score))
	}
	if exp.PredictionStatus != "" {
		head = append(head, fmt.Sprintf("🔍 **Predição:** %s", exp.PredictionStatus))
	}
	if len(head) > 0 {
		sections = append(sections, strings.Join(head, "\n"))
	}

	if exp.PredictionSummary != "" {
		sections = append(sections, fmt.Sprintf("💡 **Resumo:** %s", exp.PredictionSummary))
	}

	if len(exp.ContributingFactors) > 0 {
		sections = append(sections, "🎯 **Fatores Analisados:**")
		for _, f := range exp.ContributingFactors {
			line := fmt.Sprintf("• **%s:** %s %s", f.FactorName, f.FactorValue, f.RiskType.Icon())
			if f.Details != "" {
				line += "\n  " + f.Details
			}
			sections = append(sections, line)
		}
	}

	if len(exp.Recommendations) > 0 {
		sections = append(sections, "💪 **Recomendações:**")
		for i, r := range exp.Recommendations {
			var line string
			switch {
			case r.Title != "" && r.Details != "":
				line = fmt.Sprintf("%d. **%s**\n  %s", i+1, r.Title, r.Details)
			case r.Title != "":
				line = fmt.Sprintf("%d. **%s**", i+1, r.Title)
			default:
				line = fmt.Sprintf("%d. %s", i+1, r.Details)
			}
			sections = append(sections, line)
		}
	}

	var model []string
	if exp.ModelInfo.Disclaimer != "" {
		model = append(model, fmt.Sprintf("📈 **Sobre o Modelo:** %s", exp.ModelInfo.Disclaimer))
	}
	if exp.ModelInfo.Accuracy > 0 {
		model = append(model, fmt.Sprintf("Precisão do modelo: %s%%", strconv.FormatFloat(exp.ModelInfo.Accuracy, 'f', -1, 64)))
	}
	if len(model) > 0 {
		sections = append(sections, strings.Join(model, "\n"))
	}

	return strings.Join(sections, "\n\n")
}
