package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed advisory set returned when an emergency symptom short-circuits the
// engine. Everything else (temperature, pain, history, profile) is ignored
// in that case.
var emergencySuggestions = []string{
	"Seek emergency medical attention immediately.",
	"Call your local emergency number or have someone take you to the nearest emergency department.",
}

// Suggestion is the advisory output for one record. It is derived, never
// persisted, and tied to the source record id so consumers can detect
// staleness: whenever the latest record id or the profile changes the
// suggestion must be regenerated.
type Suggestion struct {
	RecordID    uuid.UUID `json:"record_id"`
	Summary     string    `json:"summary"`
	Suggestions []string  `json:"suggestions"`
	Reasons     []string  `json:"reasons"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerateSuggestion produces ranked, deduplicated advisory strings for the
// current record given the prior history (most recent first) and the profile
// (nullable). The engine is stateless: identical inputs yield identical
// output except for the generation timestamp.
func GenerateSuggestion(current *HealthRecord, history []*HealthRecord, profile *UserProfile) *Suggestion {
	// Emergency symptoms bypass all scoring
	for _, label := range []string{SymptomChestPain, SymptomShortnessOfBreath, SymptomBreathlessness} {
		if current.HasSymptom(label) {
			return finishSuggestion(current.ID, emergencySuggestions,
				[]string{"emergency symptom reported: " + label})
		}
	}

	var out []string
	var reasons []string

	if f, ok := NormalizeTemperature(current.Temperature); ok {
		switch {
		case f >= 104:
			out = append(out, "Temperature is dangerously high. Go to an urgent care clinic or emergency department now.")
			reasons = append(reasons, fmt.Sprintf("temperature %.1f°F at or above 104°F", f))
		case f >= 100.4:
			out = append(out, "Fever detected: rest, drink plenty of fluids, and see a doctor if it persists beyond 48 hours.")
			reasons = append(reasons, fmt.Sprintf("temperature %.1f°F indicates fever", f))
		case f >= 99.5:
			out = append(out, "Low-grade fever: rest and re-check your temperature in a few hours.")
			reasons = append(reasons, fmt.Sprintf("temperature %.1f°F is slightly elevated", f))
		case f < 95:
			out = append(out, "Temperature reads implausibly low; re-measure, the thermometer may be faulty.")
			reasons = append(reasons, fmt.Sprintf("temperature %.1f°F below plausible range", f))
		}
	} else if current.HasSymptom(SymptomFever) {
		out = append(out, "You reported fever: take a temperature reading so it can be tracked.")
		reasons = append(reasons, "fever symptom without a temperature measurement")
	}

	pain := PainSeverity(current)
	switch {
	case pain >= 8:
		out = append(out, "Pain level is severe: arrange an urgent clinical assessment.")
		reasons = append(reasons, fmt.Sprintf("pain severity %d of 9", pain))
	case pain >= 4:
		out = append(out, "Moderate pain reported: rest, and consider over-the-counter pain relief if appropriate for you.")
		reasons = append(reasons, fmt.Sprintf("pain severity %d of 9", pain))
	}

	if len(history) > 0 {
		prev := history[0]
		curFever, prevFever := FeverSeverity(current), FeverSeverity(prev)
		if curFever > prevFever && curFever >= 4 {
			out = append(out, "Your fever is trending upward compared to your last check-in; monitor it closely.")
			reasons = append(reasons, fmt.Sprintf("fever severity rose from %d to %d", prevFever, curFever))
		}
		prevPain := PainSeverity(prev)
		if pain > prevPain && pain >= 4 {
			out = append(out, "Your pain is trending upward compared to your last check-in; monitor it closely.")
			reasons = append(reasons, fmt.Sprintf("pain severity rose from %d to %d", prevPain, pain))
		}
	}

	if profile.HasMedications() {
		out = append(out, "Continue taking your medications as prescribed: "+strings.Join(profile.Medications, ", ")+".")
		reasons = append(reasons, fmt.Sprintf("profile lists %d medication(s)", len(profile.Medications)))
	}
	if profile.HasAllergies() {
		out = append(out, "Inform any treating clinician about your allergies: "+strings.Join(profile.Allergies, ", ")+".")
		reasons = append(reasons, fmt.Sprintf("profile lists %d allergy/allergies", len(profile.Allergies)))
	}

	if len(out) == 0 {
		out = append(out, "No urgent issues detected. Continue monitoring and log your next check-in as usual.")
		reasons = append(reasons, "no thresholds triggered")
	}

	return finishSuggestion(current.ID, out, reasons)
}

// finishSuggestion deduplicates by exact string equality keeping first
// occurrence order; the first surviving suggestion becomes the summary.
// Reasons are passed through undeduplicated.
func finishSuggestion(recordID uuid.UUID, suggestions, reasons []string) *Suggestion {
	seen := make(map[string]bool, len(suggestions))
	deduped := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if seen[s] {
			continue
		}
		seen[s] = true
		deduped = append(deduped, s)
	}

	summary := ""
	if len(deduped) > 0 {
		summary = deduped[0]
	}

	return &Suggestion{
		RecordID:    recordID,
		Summary:     summary,
		Suggestions: deduped,
		Reasons:     reasons,
		GeneratedAt: time.Now(),
	}
}
