package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

const publishTimeout = 3 * time.Second

// client is the part of mqtt.Client the publisher needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes events as JSON to the broker.
type MQTTPublisher struct {
	client client
	prefix string
	qos    byte
}

// NewMQTTPublisher connects to the configured broker. The client reconnects on its own afterwards.
func NewMQTTPublisher(cfg *config.Config) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	// unique per instance so replicas do not kick each other off
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.NewString()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warning("[MQTT] connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("[MQTT] connected to %s", cfg.MQTTBrokerURL)
	})

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(5*time.Second) {
		logger.Warning("[MQTT] broker %s not reachable yet, retrying in background", cfg.MQTTBrokerURL)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", err)
	}

	return newMQTTPublisher(c, cfg.MQTTTopicPrefix, byte(cfg.MQTTQoS)), nil
}

func newMQTTPublisher(c client, prefix string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: c, prefix: prefix, qos: qos}
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	topic := Topic(p.prefix, event.MaintenanceID)
	token := p.client.Publish(topic, p.qos, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	logger.Debug("[MQTT] %s published to %s", event.Type, topic)
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
