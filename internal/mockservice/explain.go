package mockservice

import (
	"fmt"
	"strconv"
	"strings"

	"cardiochat/internal/explanation"
)

const disclaimer = "Esta análise é educativa e não substitui a avaliação de um profissional de saúde."

var advice = map[string]explanation.Recommendation{
	"IMC":              {Title: "Controle de peso", Details: "Busque uma alimentação equilibrada e acompanhamento nutricional."},
	"Pressão arterial": {Title: "Monitorar a pressão", Details: "Meça a pressão regularmente e reduza o consumo de sal."},
	"Colesterol":       {Title: "Perfil lipídico", Details: "Reduza gorduras saturadas e repita o exame de colesterol."},
	"Glicose":          {Title: "Controle glicêmico", Details: "Evite açúcares simples e acompanhe a glicemia."},
	"Tabagismo":        {Title: "Parar de fumar", Details: "Procure um programa de cessação do tabagismo."},
	"Álcool":           {Title: "Moderação no álcool", Details: "Limite o consumo de bebidas alcoólicas."},
	"Atividade física": {Title: "Movimente-se", Details: "Pratique ao menos 150 minutos de atividade moderada por semana."},
}

var followUp = explanation.Recommendation{
	Title:   "Acompanhamento médico",
	Details: "Agende uma consulta com um cardiologista para avaliar estes resultados.",
}

// Recommendations lists advice for every non-favourable factor followed by
// the standard follow-up.
func (a Assessment) Recommendations() []explanation.Recommendation {
	recs := []explanation.Recommendation{}
	for _, f := range a.Factors {
		if f.RiskType == explanation.RiskSuccess {
			continue
		}
		if rec, ok := advice[f.FactorName]; ok {
			recs = append(recs, rec)
		}
	}
	return append(recs, followUp)
}

func (a Assessment) status() string {
	if a.Score >= 0.5 {
		return "Risco cardiovascular elevado"
	}
	return "Risco cardiovascular controlado"
}

func (a Assessment) summary() string {
	who := "Seu"
	if a.PatientName != "" {
		who = a.PatientName + ", seu"
	}
	return fmt.Sprintf("%s score de risco cardiovascular é %s, classificado como %s.",
		who, strconv.FormatFloat(a.Score, 'f', 2, 64), a.Level)
}

// Structured builds the object-form explanation. accuracy is a fraction.
func (a Assessment) Structured(accuracy float64) *explanation.Explanation {
	factors := a.Factors
	if factors == nil {
		factors = []explanation.Factor{}
	}
	return &explanation.Explanation{
		PatientName:         a.PatientName,
		RiskScore:           a.Score,
		RiskLevel:           a.Level,
		PredictionStatus:    a.status(),
		PredictionSummary:   a.summary(),
		ContributingFactors: factors,
		Recommendations:     a.Recommendations(),
		ModelInfo: explanation.ModelInfo{
			Accuracy:   round2(accuracy * 100),
			Disclaimer: disclaimer,
		},
	}
}

// Narrative builds the free-text explanation: summary paragraphs followed by
// numbered recommendations.
func (a Assessment) Narrative() string {
	var b strings.Builder
	b.WriteString(a.summary())

	var concerns []string
	for _, f := range a.Factors {
		if f.RiskType == explanation.RiskDanger {
			concerns = append(concerns, strings.ToLower(f.FactorName))
		}
	}
	b.WriteString("\n\n")
	if len(concerns) > 0 {
		fmt.Fprintf(&b, "Os fatores que mais pesaram na análise foram: %s.", strings.Join(concerns, ", "))
	} else {
		b.WriteString("Nenhum fator isolado se destacou como crítico na análise.")
	}

	for i, rec := range a.Recommendations() {
		fmt.Fprintf(&b, "\n\n%d. **%s:** Recomendo: %s", i+1, rec.Title, rec.Details)
	}
	b.WriteString("\n\n" + disclaimer)
	return b.String()
}
