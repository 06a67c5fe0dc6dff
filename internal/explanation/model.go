// Package explanation turns prediction service payloads into the canonical
// structured explanation shown at the end of a session.
package explanation

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RiskType categorises a contributing factor.
type RiskType string

const (
	RiskSuccess RiskType = "success"
	RiskWarning RiskType = "warning"
	RiskDanger  RiskType = "danger"
)

// ParseRiskType maps English and Portuguese category names onto the closed
// set. Anything unrecognised is a warning.
func ParseRiskType(s string) RiskType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "sucesso":
		return RiskSuccess
	case "danger", "perigo":
		return RiskDanger
	default:
		return RiskWarning
	}
}

func (r *RiskType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string categories are unrecognised, not malformed.
		*r = RiskWarning
		return nil
	}
	*r = ParseRiskType(s)
	return nil
}

// Icon is the chat symbol for the category.
func (r RiskType) Icon() string {
	switch r {
	case RiskSuccess:
		return "✅"
	case RiskDanger:
		return "🚨"
	default:
		return "⚠️"
	}
}

type Factor struct {
	FactorName  string   `json:"factorName"`
	FactorValue string   `json:"factorValue"`
	RiskType    RiskType `json:"riskType"`
	Details     string   `json:"details"`
}

// UnmarshalJSON accepts numeric factor values, which services emit for
// measurements such as BMI.
func (f *Factor) UnmarshalJSON(data []byte) error {
	var raw struct {
		FactorName  string          `json:"factorName"`
		FactorValue json.RawMessage `json:"factorValue"`
		RiskType    RiskType        `json:"riskType"`
		Details     string          `json:"details"`
	}
	raw.RiskType = RiskWarning
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.FactorName = raw.FactorName
	f.FactorValue = scalarText(raw.FactorValue)
	f.RiskType = raw.RiskType
	f.Details = raw.Details
	return nil
}

type Recommendation struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

type ModelInfo struct {
	Accuracy   float64 `json:"accuracy"`
	Disclaimer string  `json:"disclaimer"`
}

// UnmarshalJSON accepts the accuracy as a number or as text such as "80.1%".
func (m *ModelInfo) UnmarshalJSON(data []byte) error {
	type plain ModelInfo
	var raw struct {
		plain
		Accuracy json.RawMessage `json:"accuracy"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ModelInfo(raw.plain)
	m.Accuracy = scalarNumber(raw.Accuracy)
	return nil
}

// Explanation is the canonical risk-analysis result. It is built once per
// submission and not modified afterwards.
type Explanation struct {
	PatientName         string           `json:"patientName"`
	RiskScore           float64          `json:"riskScore"`
	RiskLevel           string           `json:"riskLevel"`
	PredictionStatus    string           `json:"predictionStatus"`
	PredictionSummary   string           `json:"predictionSummary"`
	ContributingFactors []Factor         `json:"contributingFactors"`
	Recommendations     []Recommendation `json:"recommendations"`
	ModelInfo           ModelInfo        `json:"modelInfo"`

	// FromNarrative is set when the explanation was segmented from free text
	// rather than supplied structured by the service.
	FromNarrative bool `json:"-"`
}

// UnmarshalJSON tolerates a risk score sent as text. Scalar text fields may
// arrive as numbers.
func (e *Explanation) UnmarshalJSON(data []byte) error {
	type plain Explanation
	var raw struct {
		plain
		PatientName       json.RawMessage `json:"patientName"`
		RiskScore         json.RawMessage `json:"riskScore"`
		RiskLevel         json.RawMessage `json:"riskLevel"`
		PredictionStatus  json.RawMessage `json:"predictionStatus"`
		PredictionSummary json.RawMessage `json:"predictionSummary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Explanation(raw.plain)
	e.PatientName = scalarText(raw.PatientName)
	e.RiskScore = scalarNumber(raw.RiskScore)
	e.RiskLevel = scalarText(raw.RiskLevel)
	e.PredictionStatus = scalarText(raw.PredictionStatus)
	e.PredictionSummary = scalarText(raw.PredictionSummary)
	return nil
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// scalarNumber reads a JSON number or a numeric string ("0.63", "80,1%").
// Anything else is 0.
func scalarNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return f
}
