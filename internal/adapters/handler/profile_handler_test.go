package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vitaljournal/journal-service/internal/adapters/handler"
	"github.com/vitaljournal/journal-service/internal/core/domain"
)

// MockProfileService is a mock implementation of ports.ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) SaveProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func TestProfileHandler_SaveProfile_Success(t *testing.T) {
	mockService := new(MockProfileService)
	profileHandler := handler.NewProfileHandler(mockService)

	saved := &domain.UserProfile{Name: "Alex", HeightValid: true, WeightValid: true}
	mockService.On("SaveProfile", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).Return(saved, nil)

	body, _ := json.Marshal(map[string]interface{}{"name": "Alex", "height_cm": 175, "weight_kg": 70})
	req := httptest.NewRequest("PUT", "/profile", bytes.NewReader(body))
	w := httptest.NewRecorder()

	profileHandler.SaveProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.UserProfile
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "Alex", response.Name)
	mockService.AssertExpectations(t)
}

func TestProfileHandler_SaveProfile_InvalidBody(t *testing.T) {
	profileHandler := handler.NewProfileHandler(new(MockProfileService))

	req := httptest.NewRequest("PUT", "/profile", bytes.NewReader([]byte("{bad")))
	w := httptest.NewRecorder()

	profileHandler.SaveProfile(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandler_GetProfile_NotFound(t *testing.T) {
	mockService := new(MockProfileService)
	profileHandler := handler.NewProfileHandler(mockService)

	mockService.On("GetProfile", mock.Anything).Return(nil, nil)

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()

	profileHandler.GetProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
