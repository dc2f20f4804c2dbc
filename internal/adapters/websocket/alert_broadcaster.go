package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// AlertBroadcaster fans urgent-or-worse assessments out to connected WebSocket
// clients. It satisfies the same publisher port as the message broker, so
// the record service treats both sinks uniformly.
type AlertBroadcaster struct {
	hub *Hub
}

// NewAlertBroadcaster creates a broadcaster bound to a hub
func NewAlertBroadcaster(hub *Hub) *AlertBroadcaster {
	return &AlertBroadcaster{hub: hub}
}

// alertMessage is the JSON payload pushed to clients
type alertMessage struct {
	Type            string    `json:"type"`
	RecordID        string    `json:"record_id"`
	Level           string    `json:"level"`
	Message         string    `json:"message"`
	Issues          []string  `json:"issues,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// PublishAlert broadcasts an assessment to every connected client
func (b *AlertBroadcaster) PublishAlert(ctx context.Context, record *domain.HealthRecord, assessment *domain.RiskAssessment) error {
	msg := alertMessage{
		Type:            "health_alert",
		RecordID:        record.ID.String(),
		Level:           string(assessment.Level),
		Message:         assessment.Message,
		Issues:          assessment.Issues,
		Recommendations: assessment.Recommendations,
		Timestamp:       time.Now(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal alert message: %w", err)
	}

	b.hub.Broadcast(payload)
	log.Printf("Broadcast %s alert for record %s to %d clients",
		assessment.Level, record.ID, b.hub.ConnectedClients())
	return nil
}

// Interface compliance check
var _ ports.AlertPublisher = (*AlertBroadcaster)(nil)
