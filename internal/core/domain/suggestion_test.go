package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitaljournal/journal-service/internal/core/domain"
)

func TestGenerateSuggestion_EmergencySymptomShortCircuits(t *testing.T) {
	current := &domain.HealthRecord{
		ID:          uuid.New(),
		Temperature: floatPtr(104.5),
		Symptoms:    []string{"chest pain", "headache"},
	}
	profile := &domain.UserProfile{
		Name:        "Alex",
		Medications: []string{"aspirin"},
		Allergies:   []string{"penicillin"},
	}

	s := domain.GenerateSuggestion(current, nil, profile)

	// Everything else is bypassed: only the fixed emergency set remains
	require.Len(t, s.Suggestions, 2)
	assert.Equal(t, "Seek emergency medical attention immediately.", s.Summary)
	assert.Equal(t, s.Suggestions[0], s.Summary)
	assert.Len(t, s.Reasons, 1)
	assert.Contains(t, s.Reasons[0], "chest pain")
}

func TestGenerateSuggestion_BreathlessnessShortCircuits(t *testing.T) {
	current := &domain.HealthRecord{ID: uuid.New(), Symptoms: []string{"breathlessness"}}

	s := domain.GenerateSuggestion(current, nil, nil)

	require.Len(t, s.Suggestions, 2)
	assert.Contains(t, s.Reasons[0], "breathlessness")
}

func TestGenerateSuggestion_CelsiusFeverDetected(t *testing.T) {
	// 39°C normalizes to 102.2°F, a clear fever rather than low-grade
	current := &domain.HealthRecord{ID: uuid.New(), Temperature: floatPtr(39.0)}

	s := domain.GenerateSuggestion(current, nil, nil)

	require.NotEmpty(t, s.Suggestions)
	assert.Contains(t, s.Suggestions[0], "Fever detected")
	assert.Contains(t, s.Reasons[0], "102.2")
}

func TestGenerateSuggestion_TemperatureBands(t *testing.T) {
	cases := []struct {
		name string
		temp float64
		want string
	}{
		{"dangerously high", 104.2, "dangerously high"},
		{"low grade", 99.8, "Low-grade fever"},
		{"implausibly low", 93.0, "implausibly low"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current := &domain.HealthRecord{ID: uuid.New(), Temperature: floatPtr(tc.temp)}
			s := domain.GenerateSuggestion(current, nil, nil)
			require.NotEmpty(t, s.Suggestions)
			assert.Contains(t, s.Suggestions[0], tc.want)
		})
	}
}

func TestGenerateSuggestion_FeverSymptomWithoutReading(t *testing.T) {
	current := &domain.HealthRecord{ID: uuid.New(), Symptoms: []string{"fever"}}

	s := domain.GenerateSuggestion(current, nil, nil)

	require.NotEmpty(t, s.Suggestions)
	assert.Contains(t, s.Suggestions[0], "take a temperature reading")
}

func TestGenerateSuggestion_PainThresholds(t *testing.T) {
	// chest pain would short-circuit, so severe pain needs headache absent it;
	// headache+fatigue is 4, the moderate band
	current := &domain.HealthRecord{ID: uuid.New(), Symptoms: []string{"headache", "fatigue"}}

	s := domain.GenerateSuggestion(current, nil, nil)

	require.NotEmpty(t, s.Suggestions)
	assert.Contains(t, s.Suggestions[0], "Moderate pain")
	assert.Contains(t, s.Reasons[0], "pain severity 4 of 9")
}

func TestGenerateSuggestion_FeverTrendingUp(t *testing.T) {
	prev := &domain.HealthRecord{ID: uuid.New(), Temperature: floatPtr(99.0)}
	current := &domain.HealthRecord{ID: uuid.New(), Temperature: floatPtr(101.0)}

	s := domain.GenerateSuggestion(current, []*domain.HealthRecord{prev}, nil)

	joined := ""
	for _, sug := range s.Suggestions {
		joined += sug + "\n"
	}
	assert.Contains(t, joined, "fever is trending upward")
}

func TestGenerateSuggestion_PainTrendingUp(t *testing.T) {
	// headache is 3, headache+fatigue is 4: rising and at the moderate floor
	prev := &domain.HealthRecord{ID: uuid.New(), Symptoms: []string{"headache"}}
	current := &domain.HealthRecord{ID: uuid.New(), Symptoms: []string{"headache", "fatigue"}}

	s := domain.GenerateSuggestion(current, []*domain.HealthRecord{prev}, nil)

	joined := ""
	for _, sug := range s.Suggestions {
		joined += sug + "\n"
	}
	assert.Contains(t, joined, "pain is trending upward")
	assert.Contains(t, strings.Join(s.Reasons, "\n"), "pain severity rose from 3 to 4")
}

func TestGenerateSuggestion_PainSteadyDoesNotTrend(t *testing.T) {
	prev := &domain.HealthRecord{ID: uuid.New(), Symptoms: []string{"headache", "fatigue"}}
	current := &domain.HealthRecord{ID: uuid.New(), Symptoms: []string{"headache", "fatigue"}}

	s := domain.GenerateSuggestion(current, []*domain.HealthRecord{prev}, nil)

	for _, sug := range s.Suggestions {
		assert.NotContains(t, sug, "pain is trending upward")
	}
}

func TestGenerateSuggestion_ProfileAugmentation(t *testing.T) {
	current := &domain.HealthRecord{ID: uuid.New(), Temperature: floatPtr(99.8)}
	profile := &domain.UserProfile{
		Name:        "Alex",
		Medications: []string{"metformin", "lisinopril"},
		Allergies:   []string{"penicillin"},
	}

	s := domain.GenerateSuggestion(current, nil, profile)

	joined := ""
	for _, sug := range s.Suggestions {
		joined += sug + "\n"
	}
	assert.Contains(t, joined, "metformin, lisinopril")
	assert.Contains(t, joined, "penicillin")
}

func TestGenerateSuggestion_NilProfileIsSafe(t *testing.T) {
	current := &domain.HealthRecord{ID: uuid.New()}

	s := domain.GenerateSuggestion(current, nil, nil)

	require.Len(t, s.Suggestions, 1)
	assert.Contains(t, s.Summary, "No urgent issues detected")
}

func TestGenerateSuggestion_DeterministicForSameInput(t *testing.T) {
	current := &domain.HealthRecord{
		ID:          uuid.New(),
		Temperature: floatPtr(101.0),
		Symptoms:    []string{"headache", "fatigue"},
	}
	profile := &domain.UserProfile{Name: "Alex", Medications: []string{"aspirin"}}

	first := domain.GenerateSuggestion(current, nil, profile)
	second := domain.GenerateSuggestion(current, nil, profile)

	assert.Equal(t, first.RecordID, second.RecordID)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Suggestions, second.Suggestions)
	assert.Equal(t, first.Reasons, second.Reasons)
}
