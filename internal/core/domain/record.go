package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Symptom labels from the fixed vocabulary
// Free-text labels outside this list are accepted but contribute no severity
const (
	SymptomFever             = "fever"
	SymptomChestPain         = "chest pain"
	SymptomHeadache          = "headache"
	SymptomFatigue           = "fatigue"
	SymptomShortnessOfBreath = "shortness of breath"
	SymptomBreathlessness    = "breathlessness"
	SymptomCough             = "cough"
	SymptomNausea            = "nausea"
	SymptomDizziness         = "dizziness"
)

// HealthRecord represents a single daily check-in
// Immutable once created: new check-ins append, never mutate
// Vitals are optional; nil means "no measurement", which is distinct from zero
type HealthRecord struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Temperature  *float64  `json:"temperature,omitempty"`   // Raw value as entered; unit resolved by NormalizeTemperature
	HeartRate    *float64  `json:"heart_rate,omitempty"`    // Beats per minute
	SystolicBP   *float64  `json:"systolic_bp,omitempty"`   // mmHg
	DiastolicBP  *float64  `json:"diastolic_bp,omitempty"`  // mmHg
	OxygenLevel  *float64  `json:"oxygen_level,omitempty"`  // SpO2 percent
	GlucoseLevel *float64  `json:"glucose_level,omitempty"` // mg/dL
	UrineNotes   string    `json:"urine_notes,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Symptoms     []string  `json:"symptoms"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasSymptom checks membership in the symptom set, case-insensitive and trimmed
func (r *HealthRecord) HasSymptom(label string) bool {
	for _, s := range r.Symptoms {
		if strings.EqualFold(strings.TrimSpace(s), label) {
			return true
		}
	}
	return false
}

// CelsiusBoundary separates the two temperature unit regimes.
// Values at or below it are read as Celsius and converted; values above it
// are read as already Fahrenheit. A Fahrenheit reading <= 45 is physiologically
// impossible but representable; it will be re-interpreted as Celsius here,
// which is the documented ambiguity of this boundary.
const CelsiusBoundary = 45.0

// NormalizeTemperature converts a raw temperature reading to Fahrenheit,
// rounded to one decimal place. The second return value is false when there
// is no usable measurement (nil, NaN or infinite input), and callers must
// not treat that case as a zero reading.
func NormalizeTemperature(raw *float64) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v <= CelsiusBoundary {
		v = v*9/5 + 32
	}
	return math.Round(v*10) / 10, true
}

// Fever severity bands over normalized Fahrenheit temperature
const (
	feverDefaultSeverity = 5 // "fever" symptom reported but no thermometer reading
)

// FeverSeverity maps a record to a 0..9 fever score.
// With a temperature present the score follows fixed Fahrenheit bands; a
// reported "fever" symptom without a reading scores a fixed default.
func FeverSeverity(r *HealthRecord) int {
	f, ok := NormalizeTemperature(r.Temperature)
	if !ok {
		if r.HasSymptom(SymptomFever) {
			return feverDefaultSeverity
		}
		return 0
	}
	switch {
	case f < 98:
		return 0
	case f < 99.5:
		return 2
	case f < 100.4:
		return 4
	case f < 102:
		return 7
	default:
		return 9
	}
}

// PainSeverity maps symptom presence to a 0..9 additive pain score:
// chest pain 6, headache 3, fatigue 1, capped at 9. This is a coarse
// heuristic, not a clinical pain scale.
func PainSeverity(r *HealthRecord) int {
	score := 0
	if r.HasSymptom(SymptomChestPain) {
		score += 6
	}
	if r.HasSymptom(SymptomHeadache) {
		score += 3
	}
	if r.HasSymptom(SymptomFatigue) {
		score += 1
	}
	if score > 9 {
		score = 9
	}
	return score
}

// Plausible physiological ranges for optional vitals. Values outside a
// range are treated as absent, never as an error visible to the user.
const (
	HeartRateMin   = 20.0
	HeartRateMax   = 300.0
	SystolicBPMin  = 50.0
	SystolicBPMax  = 260.0
	DiastolicBPMin = 30.0
	DiastolicBPMax = 200.0
	OxygenLevelMin = 50.0
	OxygenLevelMax = 100.0
	GlucoseMin     = 20.0
	GlucoseMax     = 600.0
)

// SanitizeVitals drops non-finite or out-of-range vitals from a record,
// leaving the fields nil. Temperature is left untouched: its validity and
// unit handling belong to NormalizeTemperature.
func SanitizeVitals(r *HealthRecord) {
	r.HeartRate = boundedOrNil(r.HeartRate, HeartRateMin, HeartRateMax)
	r.SystolicBP = boundedOrNil(r.SystolicBP, SystolicBPMin, SystolicBPMax)
	r.DiastolicBP = boundedOrNil(r.DiastolicBP, DiastolicBPMin, DiastolicBPMax)
	r.OxygenLevel = boundedOrNil(r.OxygenLevel, OxygenLevelMin, OxygenLevelMax)
	r.GlucoseLevel = boundedOrNil(r.GlucoseLevel, GlucoseMin, GlucoseMax)
}

func boundedOrNil(v *float64, min, max float64) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < min || *v > max {
		return nil
	}
	return v
}
