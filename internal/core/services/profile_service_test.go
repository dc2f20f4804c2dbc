package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/services"
)

func TestProfileService_SaveProfile_Success(t *testing.T) {
	mockProfileRepo := new(MockProfileRepository)
	profileService := services.NewProfileService(mockProfileRepo)

	mockProfileRepo.On("SaveProfile", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).Return(nil)

	profile := &domain.UserProfile{
		Name:        "  Alex  ",
		HeightCm:    175,
		WeightKg:    70,
		Medications: []string{" aspirin ", "", "aspirin"},
	}

	saved, err := profileService.SaveProfile(context.Background(), profile)

	require.NoError(t, err)
	assert.Equal(t, "Alex", saved.Name)
	assert.True(t, saved.HeightValid)
	assert.True(t, saved.WeightValid)
	// Duplicates survive cleaning; only empties are dropped
	assert.Equal(t, []string{"aspirin", "aspirin"}, saved.Medications)
	assert.False(t, saved.UpdatedAt.IsZero())
	mockProfileRepo.AssertExpectations(t)
}

func TestProfileService_SaveProfile_FlagsImplausibleMeasurements(t *testing.T) {
	mockProfileRepo := new(MockProfileRepository)
	profileService := services.NewProfileService(mockProfileRepo)

	mockProfileRepo.On("SaveProfile", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).Return(nil)

	profile := &domain.UserProfile{Name: "Alex", HeightCm: 20, WeightKg: 1000}

	saved, err := profileService.SaveProfile(context.Background(), profile)

	require.NoError(t, err)
	assert.False(t, saved.HeightValid)
	assert.False(t, saved.WeightValid)
	assert.Equal(t, 20.0, saved.HeightCm)
	assert.Equal(t, 1000.0, saved.WeightKg)
}

func TestProfileService_SaveProfile_RequiresName(t *testing.T) {
	profileService := services.NewProfileService(new(MockProfileRepository))

	_, err := profileService.SaveProfile(context.Background(), &domain.UserProfile{Name: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name cannot be empty")

	_, err = profileService.SaveProfile(context.Background(), nil)
	require.Error(t, err)
}

func TestProfileService_GetProfile_NoneSaved(t *testing.T) {
	mockProfileRepo := new(MockProfileRepository)
	profileService := services.NewProfileService(mockProfileRepo)

	mockProfileRepo.On("GetProfile", mock.Anything).Return(nil, nil)

	profile, err := profileService.GetProfile(context.Background())

	require.NoError(t, err)
	assert.Nil(t, profile)
}
