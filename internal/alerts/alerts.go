// Package alerts publishes critical-asset notifications to downstream
// consumers over MQTT.
package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-lifecycle/internal/analysis"
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// CriticalAlert is the message published when critical assets are found.
type CriticalAlert struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	Count              int            `json:"count"`
	TotalEstimatedCost float64        `json:"total_estimated_cost"`
	Assets             []AlertedAsset `json:"assets"`
}

// AlertedAsset is the slice of an asset carried in an alert.
type AlertedAsset struct {
	ID            string  `json:"id"`
	Category      string  `json:"category"`
	Name          string  `json:"name,omitempty"`
	Priority      string  `json:"priority,omitempty"`
	Condition     string  `json:"condition,omitempty"`
	Status        string  `json:"status,omitempty"`
	PredictedCost float64 `json:"predicted_cost"`
}

// NewCriticalAlert builds the alert payload for a critical assets report.
func NewCriticalAlert(report analysis.CriticalAssetsReport, at time.Time) CriticalAlert {
	alert := CriticalAlert{
		GeneratedAt:        at,
		Count:              report.Count,
		TotalEstimatedCost: report.TotalEstimatedCost,
		Assets:             make([]AlertedAsset, 0, len(report.Assets)),
	}
	for _, a := range report.Assets {
		alert.Assets = append(alert.Assets, AlertedAsset{
			ID:            a.ID,
			Category:      string(a.Category),
			Name:          a.Name,
			Priority:      string(a.Priority),
			Condition:     string(a.Condition),
			Status:        string(a.Status),
			PredictedCost: analysis.TotalCost(a.Predictions),
		})
	}
	return alert
}

// Publisher delivers critical alerts.
type Publisher interface {
	PublishCritical(ctx context.Context, alert CriticalAlert) error
	Close()
}

// NoopPublisher drops every alert. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishCritical(ctx context.Context, alert CriticalAlert) error {
	log.WithField("count", alert.Count).Debug("No MQTT broker configured, dropping critical alert")
	return nil
}

func (NoopPublisher) Close() {}

// MQTTPublisher publishes alerts as JSON on a single topic.
type MQTTPublisher struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
}

// MQTTConfig configures the broker connection.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Timeout  time.Duration
}

// ConnectMQTT connects to the broker and returns a publisher.
func ConnectMQTT(cfg MQTTConfig) (*MQTTPublisher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	log.WithFields(log.Fields{"broker": cfg.Broker, "topic": cfg.Topic}).Info("Connected to MQTT broker")
	return NewMQTTPublisher(client, cfg.Topic, cfg.QoS, cfg.Timeout), nil
}

// NewMQTTPublisher wraps an already connected client.
func NewMQTTPublisher(client mqtt.Client, topic string, qos byte, timeout time.Duration) *MQTTPublisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MQTTPublisher{client: client, topic: topic, qos: qos, timeout: timeout}
}

// PublishCritical sends the alert and waits for the broker to acknowledge it,
// the timeout to pass or ctx to be done.
func (p *MQTTPublisher) PublishCritical(ctx context.Context, alert CriticalAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	token := p.client.Publish(p.topic, p.qos, false, payload)

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	log.WithFields(log.Fields{"topic": p.topic, "count": alert.Count}).Info("Published critical asset alert")
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
