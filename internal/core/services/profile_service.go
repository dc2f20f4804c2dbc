package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// ProfileService implements business logic for the single user profile.
// The profile is replaced wholesale on every save; there is no partial-field
// history.
type ProfileService struct {
	profileRepo ports.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo ports.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

// SaveProfile validates and stores the profile. Out-of-range height or
// weight is kept but flagged invalid rather than rejected. Duplicate tag
// strings are allowed; insertion order is preserved.
func (s *ProfileService) SaveProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile cannot be empty")
	}
	if strings.TrimSpace(profile.Name) == "" {
		return nil, fmt.Errorf("profile name cannot be empty")
	}

	profile.Name = strings.TrimSpace(profile.Name)
	profile.MedicalConditions = cleanTags(profile.MedicalConditions)
	profile.Medications = cleanTags(profile.Medications)
	profile.Allergies = cleanTags(profile.Allergies)
	profile.ValidateMeasurements()
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return profile, nil
}

// GetProfile retrieves the profile; nil when none has been saved yet
func (s *ProfileService) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Interface compliance check
var _ ports.ProfileService = (*ProfileService)(nil)

// cleanTags trims entries and drops empties; duplicates survive
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
