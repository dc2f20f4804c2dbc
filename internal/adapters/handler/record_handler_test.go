package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vitaljournal/journal-service/internal/adapters/handler"
	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// MockRecordService is a mock implementation of ports.RecordService
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) CreateRecord(ctx context.Context, req ports.CreateRecordRequest) (*domain.HealthRecord, *domain.RiskAssessment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.HealthRecord), args.Get(1).(*domain.RiskAssessment), args.Error(2)
}

func (m *MockRecordService) GetRecords(ctx context.Context, limit *int) ([]*domain.HealthRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HealthRecord), args.Error(1)
}

func (m *MockRecordService) GetRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.HealthRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthRecord), args.Error(1)
}

func (m *MockRecordService) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

func (m *MockRecordService) AssessLatest(ctx context.Context) (*domain.RiskAssessment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskAssessment), args.Error(1)
}

func (m *MockRecordService) SuggestForRecord(ctx context.Context, recordID uuid.UUID) (*domain.Suggestion, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Suggestion), args.Error(1)
}

func TestRecordHandler_CreateRecord_Success(t *testing.T) {
	mockService := new(MockRecordService)
	recordHandler := handler.NewRecordHandler(mockService)

	record := &domain.HealthRecord{ID: uuid.New(), Timestamp: time.Now()}
	assessment := &domain.RiskAssessment{Level: domain.RiskNormal, Message: "All readings look normal."}
	mockService.On("CreateRecord", mock.Anything, mock.AnythingOfType("ports.CreateRecordRequest")).Return(record, assessment, nil)

	body, _ := json.Marshal(map[string]interface{}{"temperature": 37.0})
	req := httptest.NewRequest("POST", "/records", bytes.NewReader(body))
	w := httptest.NewRecorder()

	recordHandler.CreateRecord(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response handler.CreateRecordResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, record.ID, response.Record.ID)
	assert.Equal(t, domain.RiskNormal, response.Assessment.Level)
	mockService.AssertExpectations(t)
}

func TestRecordHandler_CreateRecord_InvalidBody(t *testing.T) {
	recordHandler := handler.NewRecordHandler(new(MockRecordService))

	req := httptest.NewRequest("POST", "/records", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	recordHandler.CreateRecord(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordHandler_GetRecords_EmptyIsJSONArray(t *testing.T) {
	mockService := new(MockRecordService)
	recordHandler := handler.NewRecordHandler(mockService)

	mockService.On("GetRecords", mock.Anything, (*int)(nil)).Return([]*domain.HealthRecord{}, nil)

	req := httptest.NewRequest("GET", "/records", nil)
	w := httptest.NewRecorder()

	recordHandler.GetRecords(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestRecordHandler_GetRecords_InvalidLimit(t *testing.T) {
	recordHandler := handler.NewRecordHandler(new(MockRecordService))

	req := httptest.NewRequest("GET", "/records?limit=abc", nil)
	w := httptest.NewRecorder()

	recordHandler.GetRecords(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordHandler_GetRecordByID_NotFound(t *testing.T) {
	mockService := new(MockRecordService)
	recordHandler := handler.NewRecordHandler(mockService)

	recordID := uuid.New()
	mockService.On("GetRecordByID", mock.Anything, recordID).Return(nil, fmt.Errorf("record not found"))

	req := httptest.NewRequest("GET", "/records/"+recordID.String(), nil)
	req.SetPathValue("record_id", recordID.String())
	w := httptest.NewRecorder()

	recordHandler.GetRecordByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordHandler_GetRecordByID_InvalidID(t *testing.T) {
	recordHandler := handler.NewRecordHandler(new(MockRecordService))

	req := httptest.NewRequest("GET", "/records/not-a-uuid", nil)
	req.SetPathValue("record_id", "not-a-uuid")
	w := httptest.NewRecorder()

	recordHandler.GetRecordByID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordHandler_DeleteRecord_Success(t *testing.T) {
	mockService := new(MockRecordService)
	recordHandler := handler.NewRecordHandler(mockService)

	recordID := uuid.New()
	mockService.On("DeleteRecord", mock.Anything, recordID).Return(nil)

	req := httptest.NewRequest("DELETE", "/records/"+recordID.String(), nil)
	req.SetPathValue("record_id", recordID.String())
	w := httptest.NewRecorder()

	recordHandler.DeleteRecord(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestRecordHandler_GetSuggestion_Success(t *testing.T) {
	mockService := new(MockRecordService)
	recordHandler := handler.NewRecordHandler(mockService)

	recordID := uuid.New()
	suggestion := &domain.Suggestion{
		RecordID:    recordID,
		Summary:     "No urgent issues detected. Continue monitoring and log your next check-in as usual.",
		Suggestions: []string{"No urgent issues detected. Continue monitoring and log your next check-in as usual."},
		GeneratedAt: time.Now(),
	}
	mockService.On("SuggestForRecord", mock.Anything, recordID).Return(suggestion, nil)

	req := httptest.NewRequest("GET", "/records/"+recordID.String()+"/suggestion", nil)
	req.SetPathValue("record_id", recordID.String())
	w := httptest.NewRecorder()

	recordHandler.GetSuggestion(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.Suggestion
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, recordID, response.RecordID)
	assert.NotEmpty(t, response.Summary)
}

func TestRecordHandler_GetAssessment_Success(t *testing.T) {
	mockService := new(MockRecordService)
	recordHandler := handler.NewRecordHandler(mockService)

	assessment := &domain.RiskAssessment{Level: domain.RiskWarning, Message: "Some readings need attention: abnormal temperature."}
	mockService.On("AssessLatest", mock.Anything).Return(assessment, nil)

	req := httptest.NewRequest("GET", "/assessment", nil)
	w := httptest.NewRecorder()

	recordHandler.GetAssessment(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.RiskAssessment
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskWarning, response.Level)
}
