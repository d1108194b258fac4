package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sensors []SensorConfig `yaml:"sensors"`
	Web     WebConfig      `yaml:"web"`
	MQTT    MQTTConfig     `yaml:"mqtt"`
}

type SensorConfig struct {
	Name         string        `yaml:"name"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	UniqueID     string        `yaml:"unique_id"`
	ScanInterval time.Duration `yaml:"scan_interval"`
}

// Addr is the host:port string for dialing gpsd.
func (s SensorConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

// MQTTConfig is optional; an empty broker disables publishing.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config parse failed: %v", err)
	}

	// A config without sensors still runs one against the local daemon.
	if len(cfg.Sensors) == 0 {
		cfg.Sensors = []SensorConfig{{}}
	}
	for i := range cfg.Sensors {
		s := &cfg.Sensors[i]
		if s.Name == "" {
			s.Name = "GPSD Client"
		}
		if s.Host == "" {
			s.Host = "localhost"
		}
		if s.Port == 0 {
			s.Port = 2947
		}
		if s.Port < 1 || s.Port > 65535 {
			return Config{}, fmt.Errorf("sensors[%d].port must be 1-65535", i)
		}
		if s.ScanInterval < 0 {
			return Config{}, fmt.Errorf("sensors[%d].scan_interval must be >= 0", i)
		}
		if s.ScanInterval == 0 {
			s.ScanInterval = 10 * time.Second
		}
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8095"
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "gpsd-sensor"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "gpsd"
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets deployment environments override connection secrets
// without editing the YAML. Supported: MQTT_BROKER, MQTT_USERNAME,
// MQTT_PASSWORD, MQTT_TOPIC_PREFIX, WEB_LISTEN.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		c.MQTT.Broker = v
	}
	if v := os.Getenv("MQTT_USERNAME"); v != "" {
		c.MQTT.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
	if v := os.Getenv("MQTT_TOPIC_PREFIX"); v != "" {
		c.MQTT.TopicPrefix = v
	}
	if v := os.Getenv("WEB_LISTEN"); v != "" {
		c.Web.Listen = v
	}
}
