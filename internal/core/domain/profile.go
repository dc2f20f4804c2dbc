package domain

import "time"

// UserProfile is the single per-user profile. It is replaced wholesale on
// every edit; there is no partial-field history.
// Duplicate entries in the tag lists are permitted; insertion order is
// preserved for display.
type UserProfile struct {
	Name              string    `json:"name"`
	DateOfBirth       string    `json:"date_of_birth,omitempty"`
	BloodType         string    `json:"blood_type,omitempty"`
	HeightCm          float64   `json:"height_cm,omitempty"`
	WeightKg          float64   `json:"weight_kg,omitempty"`
	HeightValid       bool      `json:"height_valid"`
	WeightValid       bool      `json:"weight_valid"`
	Phone             string    `json:"phone,omitempty"`
	Address           string    `json:"address,omitempty"`
	EmergencyContact  string    `json:"emergency_contact,omitempty"`
	EmergencyPhone    string    `json:"emergency_phone,omitempty"`
	DoctorName        string    `json:"doctor_name,omitempty"`
	DoctorPhone       string    `json:"doctor_phone,omitempty"`
	MedicalConditions []string  `json:"medical_conditions"`
	Medications       []string  `json:"medications"`
	Allergies         []string  `json:"allergies"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Plausible physiological ranges for profile measurements
const (
	HeightMinCm = 50.0
	HeightMaxCm = 250.0
	WeightMinKg = 2.0
	WeightMaxKg = 500.0
)

// IsValidHeight reports whether a height in centimeters is plausible
func IsValidHeight(cm float64) bool {
	return cm >= HeightMinCm && cm <= HeightMaxCm
}

// IsValidWeight reports whether a weight in kilograms is plausible
func IsValidWeight(kg float64) bool {
	return kg >= WeightMinKg && kg <= WeightMaxKg
}

// ValidateMeasurements sets the validity flags for height and weight.
// Out-of-range values are kept but marked invalid rather than silently
// accepted or rejected.
func (p *UserProfile) ValidateMeasurements() {
	p.HeightValid = IsValidHeight(p.HeightCm)
	p.WeightValid = IsValidWeight(p.WeightKg)
}

// HasMedications reports whether the medication list is non-empty
func (p *UserProfile) HasMedications() bool {
	return p != nil && len(p.Medications) > 0
}

// HasAllergies reports whether the allergy list is non-empty
func (p *UserProfile) HasAllergies() bool {
	return p != nil && len(p.Allergies) > 0
}
