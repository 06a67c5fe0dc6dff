package mockservice

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cardiochat/internal/explanation"
)

// Risk levels by score threshold.
const (
	LevelCritical = "CRÍTICO"
	LevelHigh     = "ALTO"
	LevelMedium   = "MÉDIO"
	LevelLow      = "BAIXO"
	LevelMinimal  = "MÍNIMO"
)

// RiskLevel maps a score in [0,1] onto its level.
func RiskLevel(score float64) string {
	switch {
	case score >= 0.8:
		return LevelCritical
	case score >= 0.6:
		return LevelHigh
	case score >= 0.4:
		return LevelMedium
	case score >= 0.2:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// BMIBand classifies a body mass index.
func BMIBand(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Abaixo do peso"
	case bmi < 25:
		return "Peso normal"
	case bmi < 30:
		return "Sobrepeso"
	default:
		return "Obesidade"
	}
}

// Assessment is the toy model's verdict for one patient.
type Assessment struct {
	PatientName string
	Score       float64
	Level       string
	Factors     []explanation.Factor
}

const baseScore = 0.05

// Assess scores whatever known features the answers carry. Missing or
// malformed features are skipped.
func Assess(answers map[string]interface{}) Assessment {
	p := patient(answers)
	score := baseScore
	var factors []explanation.Factor

	add := func(name, value string, risk explanation.RiskType, details string, weight float64) {
		score += weight
		factors = append(factors, explanation.Factor{
			FactorName:  name,
			FactorValue: value,
			RiskType:    risk,
			Details:     details,
		})
	}

	if age, ok := p.number("age"); ok {
		weight := clamp((age-30)/50, 0, 1) * 0.3
		risk := explanation.RiskSuccess
		switch {
		case age >= 60:
			risk = explanation.RiskDanger
		case age >= 45:
			risk = explanation.RiskWarning
		}
		add("Idade", fmt.Sprintf("%.0f anos", age), risk, "O risco cardiovascular cresce com a idade.", weight)
	}

	if height, ok := p.number("height"); ok && height > 0 {
		if weight, ok := p.number("weight"); ok {
			bmi := round2(weight / math.Pow(height/100, 2))
			band := BMIBand(bmi)
			w, risk := 0.0, explanation.RiskSuccess
			switch band {
			case "Obesidade":
				w, risk = 0.15, explanation.RiskDanger
			case "Sobrepeso":
				w, risk = 0.08, explanation.RiskWarning
			case "Abaixo do peso":
				w, risk = 0.05, explanation.RiskWarning
			}
			add("IMC", fmt.Sprintf("%s (%s)", strconv.FormatFloat(bmi, 'f', -1, 64), band), risk,
				"Índice de massa corporal calculado a partir de altura e peso.", w)
		}
	}

	if hi, ok := p.number("ap_hi"); ok {
		value := fmt.Sprintf("%.0f mmHg", hi)
		if lo, ok := p.number("ap_lo"); ok {
			value = fmt.Sprintf("%.0f/%.0f mmHg", hi, lo)
		}
		w, risk := 0.0, explanation.RiskSuccess
		switch {
		case hi >= 160:
			w, risk = 0.2, explanation.RiskDanger
		case hi >= 140:
			w, risk = 0.12, explanation.RiskDanger
		case hi >= 130:
			w, risk = 0.05, explanation.RiskWarning
		}
		add("Pressão arterial", value, risk, "Pressão sistólica elevada sobrecarrega o coração.", w)
	}

	levelFactor := func(key, name string, weights [3]float64) {
		level, ok := p.number(key)
		if !ok || level < 1 || level > 3 {
			return
		}
		i := int(level) - 1
		risks := [3]explanation.RiskType{explanation.RiskSuccess, explanation.RiskWarning, explanation.RiskDanger}
		labels := [3]string{"Normal", "Acima do normal", "Muito acima do normal"}
		add(name, labels[i], risks[i], "", weights[i])
	}
	levelFactor("cholesterol", "Colesterol", [3]float64{0, 0.08, 0.15})
	levelFactor("gluc", "Glicose", [3]float64{0, 0.05, 0.1})

	if smoker, ok := p.flag("smoke", "smoker"); ok {
		if smoker {
			add("Tabagismo", "Sim", explanation.RiskDanger, "Fumar é um dos maiores fatores de risco cardiovascular.", 0.15)
		} else {
			add("Tabagismo", "Não", explanation.RiskSuccess, "", 0)
		}
	}
	if alco, ok := p.flag("alco"); ok && alco {
		add("Álcool", "Sim", explanation.RiskWarning, "Consumo de álcool eleva a pressão arterial.", 0.05)
	}
	if active, ok := p.flag("active"); ok {
		if active {
			add("Atividade física", "Sim", explanation.RiskSuccess, "Exercício regular protege o coração.", -0.05)
		} else {
			add("Atividade física", "Não", explanation.RiskWarning, "Sedentarismo aumenta o risco.", 0.03)
		}
	}

	score = round2(clamp(score, 0, 1))
	return Assessment{
		PatientName: p.name(),
		Score:       score,
		Level:       RiskLevel(score),
		Factors:     factors,
	}
}

type patient map[string]interface{}

func (p patient) name() string {
	for _, key := range []string{"nome", "name", "user_id"} {
		if s, ok := p[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func (p patient) number(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(v), ",", ".", 1), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// flag reads the first present key as a yes/no answer.
func (p patient) flag(keys ...string) (bool, bool) {
	for _, key := range keys {
		switch v := p[key].(type) {
		case bool:
			return v, true
		case float64:
			return v != 0, true
		case int:
			return v != 0, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, true
			}
		}
	}
	return false, false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
