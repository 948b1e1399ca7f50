package entities

// SeverityBand is the qualitative classification of a probability value
type SeverityBand string

const (
	SeverityMinimal  SeverityBand = "minimal"
	SeverityMild     SeverityBand = "mild"
	SeverityModerate SeverityBand = "moderate"
	SeveritySevere   SeverityBand = "severe"
	SeverityCritical SeverityBand = "critical"
)

// Probability band thresholds, carried over from the original scoring
// heuristic.
const (
	severeThreshold   = 70
	moderateThreshold = 40
	mildThreshold     = 20
)

// BandForProbability derives the severity band for a 0-100 probability.
func BandForProbability(probability int) SeverityBand {
	switch {
	case probability >= severeThreshold:
		return SeveritySevere
	case probability >= moderateThreshold:
		return SeverityModerate
	case probability >= mildThreshold:
		return SeverityMild
	default:
		return SeverityMinimal
	}
}

// ConfidenceRange is the interval around a probability estimate
type ConfidenceRange struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// DiagnosisProbability tracks one candidate diagnosis across a session
type DiagnosisProbability struct {
	Diagnosis          string          `json:"diagnosis"`
	Probability        int             `json:"probability"`
	ConfidenceRange    ConfidenceRange `json:"confidence_range"`
	Range              SeverityBand    `json:"range"`
	Description        string          `json:"description,omitempty"`
	SupportingSymptoms []string        `json:"supporting_symptoms"`
}

// ClampProbability bounds a probability value to [0,100].
func ClampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Apply sets a new probability and recomputes the derived fields. The
// confidence interval is probability +-10, clamped at the boundaries.
func (d *DiagnosisProbability) Apply(probability int) {
	p := ClampProbability(probability)
	d.Probability = p
	d.ConfidenceRange = ConfidenceRange{
		Lower: ClampProbability(p - 10),
		Upper: ClampProbability(p + 10),
	}
	d.Range = BandForProbability(p)
}

// AddSupportingSymptom appends a symptom with set semantics, preserving
// insertion order.
func (d *DiagnosisProbability) AddSupportingSymptom(symptom string) {
	for _, existing := range d.SupportingSymptoms {
		if existing == symptom {
			return
		}
	}
	d.SupportingSymptoms = append(d.SupportingSymptoms, symptom)
}
