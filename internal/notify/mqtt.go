package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultQoS     byte = 1
	publishTimeout      = 5 * time.Second
)

var ErrNotConnected = errors.New("mqtt: not connected")

// Config selects the broker and the topic log entries are published to.
type Config struct {
	Broker   string
	ClientID string
	Topic    string
}

// publisher is the subset of mqtt.Client used here.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
}

// LogPublisher mirrors irrigation log entries to an MQTT topic.
type LogPublisher struct {
	client publisher
	topic  string
	now    func() time.Time
	log    *logger.Logger
}

type logMessage struct {
	Event       string                    `json:"event"`
	Entry       models.IrrigationLogEntry `json:"entry"`
	PublishedAt time.Time                 `json:"published_at"`
}

// Connect dials the broker and returns a publisher. The paho client keeps
// reconnecting in the background after the first successful connect.
func Connect(cfg Config, log *logger.Logger) (*LogPublisher, func(), error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		if log != nil {
			log.Warnw("mqtt_connection_lost", "broker", cfg.Broker, "err", err)
		}
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		if log != nil {
			log.Infow("mqtt_connected", "broker", cfg.Broker, "topic", cfg.Topic)
		}
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		// ConnectRetry keeps trying; publishes fail until it succeeds
		if log != nil {
			log.Warnw("mqtt_connect_pending", "broker", cfg.Broker)
		}
	} else if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}

	closeFn := func() { client.Disconnect(250) }
	return newLogPublisher(client, cfg.Topic, log), closeFn, nil
}

func newLogPublisher(client publisher, topic string, log *logger.Logger) *LogPublisher {
	return &LogPublisher{client: client, topic: topic, now: time.Now, log: log}
}

// PublishLog sends one entry and waits for the broker acknowledgement.
func (p *LogPublisher) PublishLog(ctx context.Context, entry models.IrrigationLogEntry) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(logMessage{
		Event:       "irrigation_log",
		Entry:       entry,
		PublishedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	token := p.client.Publish(p.topic, defaultQoS, false, payload)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	case <-time.After(publishTimeout):
		return fmt.Errorf("mqtt publish %s: timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", p.topic, err)
	}
	if p.log != nil {
		p.log.Debugw("mqtt_log_published", "topic", p.topic, "entry_id", entry.ID)
	}
	return nil
}
