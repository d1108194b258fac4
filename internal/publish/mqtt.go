package publish

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/torbrinch/ha-gpsd-client/internal/sensor"
)

// Config for the MQTT state publisher.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// Publisher pushes sensor snapshots to an MQTT broker as retained JSON, one
// state topic per sensor. A home-automation host subscribes to these topics;
// retained messages give late subscribers the last known fix immediately.
type Publisher struct {
	client mqtt.Client
	prefix string
}

// Connect establishes the broker session. Publish failures later on are per
// message; a broker outage at startup is surfaced here so the caller can
// decide to run without MQTT.
func Connect(cfg Config) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "gpsd-sensor"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect failed broker=%s: %w", cfg.Broker, token.Error())
	}
	return &Publisher{client: client, prefix: cfg.TopicPrefix}, nil
}

// Publish sends one snapshot to the sensor's state topic.
func (p *Publisher) Publish(snap sensor.Snapshot) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot marshal failed: %w", err)
	}
	token := p.client.Publish(StateTopic(p.prefix, snap.UniqueID), 0, true, payload)
	token.Wait()
	return token.Error()
}

func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}

// StateTopic builds "<prefix>/<id>/state", tolerating stray slashes in the
// configured prefix.
func StateTopic(prefix, id string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return id + "/state"
	}
	return prefix + "/" + id + "/state"
}
