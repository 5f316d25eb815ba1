package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Metrics   MetricsConfig   `yaml:"metrics"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Messaging MessagingConfig `yaml:"messaging"`
	Web       WebConfig       `yaml:"web"`
}

// MetricsConfig selects where metric data points are sent.
type MetricsConfig struct {
	Namespace  string           `yaml:"namespace"`
	Backends   []string         `yaml:"backends"` // cloudwatch, sql, redis, bus, log
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
	BusTopic   string           `yaml:"bus_topic"`
}

type CloudWatchConfig struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MessagingConfig defines the inbound message bus.
type MessagingConfig struct {
	Backend       string      `yaml:"backend"` // "mqtt", "kafka" or "" to disable
	MQTT          MQTTConfig  `yaml:"mqtt"`
	Kafka         KafkaConfig `yaml:"kafka"`
	InboundTopics []string    `yaml:"inbound_topics"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Known metric backend names.
const (
	BackendCloudWatch = "cloudwatch"
	BackendSQL        = "sql"
	BackendRedis      = "redis"
	BackendBus        = "bus"
	BackendLog        = "log"
)

func Defaults() *Config {
	return &Config{
		Metrics: MetricsConfig{
			Namespace: "FischertechnikFactory",
			Backends:  []string{BackendCloudWatch},
			CloudWatch: CloudWatchConfig{
				Region: "us-east-1",
			},
			BusTopic: "factory/metrics",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "factorymetrics.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "factorymetrics",
				User:     "factorymetrics",
				SSLMode:  "disable",
			},
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
		},
		Messaging: MessagingConfig{
			Backend: "mqtt",
			MQTT: MQTTConfig{
				Broker:   "localhost",
				Port:     1883,
				ClientID: "factorymetrics",
				QoS:      1,
			},
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				GroupID: "factorymetrics",
			},
			InboundTopics: []string{
				"factory/topic",
				"dashboard/order",
				"factory/status",
				"nfc/reader",
				"warehouse/stock",
				"warehouse/raw_material",
			},
		},
		Web: WebConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8085,
		},
	}
}

// Load reads a YAML config file. If the file doesn't exist, defaults are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides config values from FACTORY_METRICS_* variables and
// AWS_REGION. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("FACTORY_METRICS_NAMESPACE", &c.Metrics.Namespace)
	list("FACTORY_METRICS_BACKENDS", &c.Metrics.Backends)
	str("AWS_REGION", &c.Metrics.CloudWatch.Region)
	str("FACTORY_METRICS_CLOUDWATCH_ENDPOINT", &c.Metrics.CloudWatch.Endpoint)
	str("FACTORY_METRICS_BUS_TOPIC", &c.Metrics.BusTopic)

	str("FACTORY_METRICS_DB_DRIVER", &c.Database.Driver)
	str("FACTORY_METRICS_SQLITE_PATH", &c.Database.SQLite.Path)
	str("FACTORY_METRICS_PG_HOST", &c.Database.Postgres.Host)
	str("FACTORY_METRICS_PG_DATABASE", &c.Database.Postgres.Database)
	str("FACTORY_METRICS_PG_USER", &c.Database.Postgres.User)
	str("FACTORY_METRICS_PG_PASSWORD", &c.Database.Postgres.Password)

	str("FACTORY_METRICS_REDIS_ADDR", &c.Redis.Address)
	str("FACTORY_METRICS_REDIS_PASSWORD", &c.Redis.Password)

	if v, ok := lookup("FACTORY_METRICS_MESSAGING_BACKEND"); ok {
		c.Messaging.Backend = v
	}
	str("FACTORY_METRICS_MQTT_BROKER", &c.Messaging.MQTT.Broker)
	str("FACTORY_METRICS_MQTT_CLIENT_ID", &c.Messaging.MQTT.ClientID)
	list("FACTORY_METRICS_KAFKA_BROKERS", &c.Messaging.Kafka.Brokers)
	list("FACTORY_METRICS_INBOUND_TOPICS", &c.Messaging.InboundTopics)

	for key, dst := range map[string]*int{
		"FACTORY_METRICS_PG_PORT":   &c.Database.Postgres.Port,
		"FACTORY_METRICS_REDIS_DB":  &c.Redis.DB,
		"FACTORY_METRICS_MQTT_PORT": &c.Messaging.MQTT.Port,
		"FACTORY_METRICS_WEB_PORT":  &c.Web.Port,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports configuration that cannot be started.
func (c *Config) Validate() error {
	if c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required")
	}
	if len(c.Metrics.Backends) == 0 {
		return fmt.Errorf("metrics.backends is empty")
	}
	for _, b := range c.Metrics.Backends {
		switch b {
		case BackendCloudWatch, BackendSQL, BackendRedis, BackendLog:
		case BackendBus:
			if c.Messaging.Backend == "" {
				return fmt.Errorf("metrics backend %q needs messaging.backend", b)
			}
		default:
			return fmt.Errorf("unknown metrics backend: %s", b)
		}
	}
	switch c.Messaging.Backend {
	case "", "mqtt", "kafka":
	default:
		return fmt.Errorf("unknown messaging backend: %s", c.Messaging.Backend)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
