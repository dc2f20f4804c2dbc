package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// DirectoryMessage is a batch of candidate facilities from the external
// hospital directory. Fields on each candidate are permissive; malformed
// entries are normalized by the hospital service, not rejected here.
// A replace message carries the full directory: the stored set is cleared
// before the batch is ingested.
type DirectoryMessage struct {
	Source    string                    `json:"source,omitempty"`
	Replace   bool                      `json:"replace,omitempty"`
	Hospitals []ports.HospitalCandidate `json:"hospitals"`
}

// HospitalConsumer consumes hospital directory updates from RabbitMQ and
// feeds them into the same ingestion path as the HTTP endpoint.
// Runs in background as a goroutine within the journal-service pod.
type HospitalConsumer struct {
	conn            *amqp091.Connection
	channel         *amqp091.Channel
	queueName       string
	hospitalService ports.HospitalService
	connMutex       sync.RWMutex
	reconnectCh     chan bool
	stopReconnect   chan bool
	maxRetries      int
	retryDelay      time.Duration
	consumingCtx    context.Context
	consumingMutex  sync.Mutex
	isConsuming     bool
}

// NewHospitalConsumer creates a new RabbitMQ consumer for directory updates
func NewHospitalConsumer(rabbitMQURL string, queueName string, hospitalService ports.HospitalService) (*HospitalConsumer, error) {
	if queueName == "" {
		queueName = "hospital.directory.updates"
	}

	consumer := &HospitalConsumer{
		queueName:       queueName,
		hospitalService: hospitalService,
		maxRetries:      3,
		retryDelay:      1 * time.Second,
		reconnectCh:     make(chan bool, 1),
		stopReconnect:   make(chan bool),
	}

	if err := consumer.connect(rabbitMQURL); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go consumer.handleReconnection(rabbitMQURL)

	return consumer, nil
}

// connect establishes connection to RabbitMQ
func (c *HospitalConsumer) connect(rabbitMQURL string) error {
	var err error
	for i := 0; i < c.maxRetries; i++ {
		c.conn, err = amqp091.Dial(rabbitMQURL)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v", i+1, c.maxRetries, err)
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay)
		}
	}

	if err != nil {
		return err
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return err
	}

	// Declare queue (idempotent)
	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)

	if err != nil {
		c.channel.Close()
		c.conn.Close()
		return err
	}

	log.Println("Hospital consumer connected to RabbitMQ successfully")
	return nil
}

// handleReconnection handles automatic reconnection to RabbitMQ
func (c *HospitalConsumer) handleReconnection(rabbitMQURL string) {
	for {
		select {
		case <-c.reconnectCh:
			log.Println("Attempting to reconnect to RabbitMQ...")
			c.connMutex.Lock()
			if c.conn != nil && !c.conn.IsClosed() {
				c.conn.Close()
			}
			if c.channel != nil && !c.channel.IsClosed() {
				c.channel.Close()
			}
			c.connMutex.Unlock()

			if err := c.connect(rabbitMQURL); err != nil {
				log.Printf("Reconnection failed: %v", err)
				time.Sleep(5 * time.Second)
				c.reconnectCh <- true
			} else {
				c.consumingMutex.Lock()
				if c.consumingCtx != nil && c.consumingCtx.Err() == nil {
					if !c.isConsuming {
						go c.StartConsuming(c.consumingCtx)
					}
				}
				c.consumingMutex.Unlock()
			}
		case <-c.stopReconnect:
			return
		}
	}
}

// StartConsuming starts consuming messages from the queue in a background
// goroutine. Only one consumer runs per process instance.
func (c *HospitalConsumer) StartConsuming(ctx context.Context) error {
	c.consumingMutex.Lock()
	if c.isConsuming {
		c.consumingMutex.Unlock()
		log.Println("Hospital consumer is already running, skipping duplicate start")
		return nil
	}
	c.isConsuming = true
	c.consumingCtx = ctx
	c.consumingMutex.Unlock()

	c.connMutex.RLock()
	channel := c.channel
	conn := c.conn
	c.connMutex.RUnlock()

	if channel == nil || channel.IsClosed() || conn == nil || conn.IsClosed() {
		c.consumingMutex.Lock()
		c.isConsuming = false
		c.consumingMutex.Unlock()
		return fmt.Errorf("RabbitMQ connection is closed")
	}

	// One unacknowledged message at a time; a directory batch can be large
	err := channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		c.consumingMutex.Lock()
		c.isConsuming = false
		c.consumingMutex.Unlock()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	consumerTag := fmt.Sprintf("hospital-consumer-%d", time.Now().UnixNano())
	msgs, err := channel.Consume(
		c.queueName, // queue
		consumerTag, // consumer tag
		false,       // auto-ack (manual ack after successful ingestion)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		c.consumingMutex.Lock()
		c.isConsuming = false
		c.consumingMutex.Unlock()
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("Hospital consumer started (tag: %s), waiting for messages on queue: %s", consumerTag, c.queueName)

	go func() {
		defer func() {
			c.consumingMutex.Lock()
			c.isConsuming = false
			c.consumingMutex.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				log.Println("Hospital consumer context cancelled")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("Hospital consumer channel closed, attempting reconnection...")
					c.reconnectCh <- true
					return
				}

				c.processMessage(ctx, msg)
			}
		}
	}()

	return nil
}

// processMessage ingests a single directory batch.
// The message is acknowledged only after the batch is stored; storage
// failures nack with requeue so the prior cached list stays in use and the
// batch is retried later.
func (c *HospitalConsumer) processMessage(ctx context.Context, msg amqp091.Delivery) {
	var directory DirectoryMessage
	if err := json.Unmarshal(msg.Body, &directory); err != nil {
		log.Printf("Failed to unmarshal hospital directory message: %v", err)
		// Invalid message format - reject and don't requeue
		msg.Nack(false, false)
		return
	}

	if len(directory.Hospitals) == 0 {
		// An empty batch is a no-op even for replace messages; a feed must
		// never wipe the directory without supplying a replacement
		log.Printf("Hospital directory message carried no facilities (source=%s)", directory.Source)
		msg.Ack(false)
		return
	}

	var stored int
	var err error
	if directory.Replace {
		stored, err = c.hospitalService.ReplaceCandidates(ctx, directory.Hospitals)
	} else {
		stored, err = c.hospitalService.IngestCandidates(ctx, directory.Hospitals)
	}
	if err != nil {
		log.Printf("Failed to ingest hospital directory batch: %v", err)
		// Storage failed - requeue for retry, prior cached list remains in use
		msg.Nack(false, true)
		return
	}

	logEntry := map[string]interface{}{
		"event":     "hospitals_ingested",
		"source":    directory.Source,
		"replace":   directory.Replace,
		"received":  len(directory.Hospitals),
		"stored":    stored,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	jsonBytes, _ := json.Marshal(logEntry)
	log.Printf("%s", string(jsonBytes))

	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to acknowledge message after ingestion: %v", err)
		// Redelivery is safe: ingestion upserts by name
	}
}

// Close closes the RabbitMQ connection and stops consuming
func (c *HospitalConsumer) Close() error {
	close(c.stopReconnect)

	c.consumingMutex.Lock()
	c.isConsuming = false
	c.consumingMutex.Unlock()

	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		if err := c.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			log.Printf("Error closing RabbitMQ connection: %v", err)
		}
	}

	log.Println("Hospital consumer closed")
	return nil
}
