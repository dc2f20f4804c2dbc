package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vitaljournal/journal-service/internal/adapters/handler"
	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// MockHospitalService is a mock implementation of ports.HospitalService
type MockHospitalService struct {
	mock.Mock
}

func (m *MockHospitalService) IngestCandidates(ctx context.Context, candidates []ports.HospitalCandidate) (int, error) {
	args := m.Called(ctx, candidates)
	return args.Int(0), args.Error(1)
}

func (m *MockHospitalService) ReplaceCandidates(ctx context.Context, candidates []ports.HospitalCandidate) (int, error) {
	args := m.Called(ctx, candidates)
	return args.Int(0), args.Error(1)
}

func (m *MockHospitalService) SetLocation(coords *domain.Coordinates) {
	m.Called(coords)
}

func (m *MockHospitalService) Location() *domain.Coordinates {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Coordinates)
}

func (m *MockHospitalService) FindNearest(ctx context.Context, query string) ([]*domain.Hospital, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Hospital), args.Error(1)
}

func (m *MockHospitalService) ListFiltered(ctx context.Context, filter ports.HospitalFilter) ([]*domain.Hospital, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Hospital), args.Error(1)
}

func TestHospitalHandler_IngestHospitals_Success(t *testing.T) {
	mockService := new(MockHospitalService)
	hospitalHandler := handler.NewHospitalHandler(mockService)

	mockService.On("IngestCandidates", mock.Anything, mock.AnythingOfType("[]ports.HospitalCandidate")).Return(2, nil)

	body, _ := json.Marshal(handler.IngestRequest{Hospitals: []ports.HospitalCandidate{
		{Name: "One"}, {Name: "Two"},
	}})
	req := httptest.NewRequest("POST", "/hospitals", bytes.NewReader(body))
	w := httptest.NewRecorder()

	hospitalHandler.IngestHospitals(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response handler.IngestResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, 2, response.Stored)
	mockService.AssertExpectations(t)
}

func TestHospitalHandler_IngestHospitals_ReplaceMode(t *testing.T) {
	mockService := new(MockHospitalService)
	hospitalHandler := handler.NewHospitalHandler(mockService)

	mockService.On("ReplaceCandidates", mock.Anything, mock.AnythingOfType("[]ports.HospitalCandidate")).Return(1, nil)

	body, _ := json.Marshal(handler.IngestRequest{Replace: true, Hospitals: []ports.HospitalCandidate{
		{Name: "Only One"},
	}})
	req := httptest.NewRequest("POST", "/hospitals", bytes.NewReader(body))
	w := httptest.NewRecorder()

	hospitalHandler.IngestHospitals(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "IngestCandidates", mock.Anything, mock.Anything)
}

func TestHospitalHandler_SetLocation(t *testing.T) {
	mockService := new(MockHospitalService)
	hospitalHandler := handler.NewHospitalHandler(mockService)

	mockService.On("SetLocation", mock.AnythingOfType("*domain.Coordinates")).Return()

	body, _ := json.Marshal(map[string]float64{"latitude": 40.0, "longitude": -74.0})
	req := httptest.NewRequest("PUT", "/location", bytes.NewReader(body))
	w := httptest.NewRecorder()

	hospitalHandler.SetLocation(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertCalled(t, "SetLocation", &domain.Coordinates{Latitude: 40.0, Longitude: -74.0})
}

func TestHospitalHandler_SetLocation_NullClears(t *testing.T) {
	mockService := new(MockHospitalService)
	hospitalHandler := handler.NewHospitalHandler(mockService)

	mockService.On("SetLocation", (*domain.Coordinates)(nil)).Return()

	req := httptest.NewRequest("PUT", "/location", bytes.NewReader([]byte(`{"latitude": null, "longitude": null}`)))
	w := httptest.NewRecorder()

	hospitalHandler.SetLocation(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertCalled(t, "SetLocation", (*domain.Coordinates)(nil))
}

func TestHospitalHandler_FindNearest_FormatsDistances(t *testing.T) {
	mockService := new(MockHospitalService)
	hospitalHandler := handler.NewHospitalHandler(mockService)

	hospitals := []*domain.Hospital{
		{Name: "Near", DistanceKm: 0.5},
		{Name: "Far", DistanceKm: 12.3456},
		{Name: "Unknown", DistanceKm: math.Inf(1)},
	}
	mockService.On("FindNearest", mock.Anything, "heart").Return(hospitals, nil)

	req := httptest.NewRequest("GET", "/hospitals/nearest?q=heart", nil)
	w := httptest.NewRecorder()

	hospitalHandler.FindNearest(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var views []map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&views)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "500 m", views[0]["distance"])
	assert.Equal(t, "12.35 km", views[1]["distance"])
	assert.Equal(t, "Unknown", views[2]["distance"])

	// Numeric kilometers appear only when the distance is known
	assert.Equal(t, 0.5, views[0]["distance_km"])
	_, hasNumeric := views[2]["distance_km"]
	assert.False(t, hasNumeric)
}

func TestHospitalHandler_ListHospitals_Filters(t *testing.T) {
	mockService := new(MockHospitalService)
	hospitalHandler := handler.NewHospitalHandler(mockService)

	mockService.On("ListFiltered", mock.Anything, ports.HospitalFilter{EmergencyOnly: true, Specialty: "Cardiology"}).
		Return([]*domain.Hospital{{Name: "ER One", Emergency: true}}, nil)

	req := httptest.NewRequest("GET", "/hospitals?specialty=Cardiology&emergency=true", nil)
	w := httptest.NewRecorder()

	hospitalHandler.ListHospitals(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestHospitalHandler_ListHospitals_InvalidEmergencyParam(t *testing.T) {
	hospitalHandler := handler.NewHospitalHandler(new(MockHospitalService))

	req := httptest.NewRequest("GET", "/hospitals?emergency=maybe", nil)
	w := httptest.NewRecorder()

	hospitalHandler.ListHospitals(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
