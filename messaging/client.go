package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ashleyolson477/fischertechnik-lambda/config"
)

// MessageHandler receives one raw payload and the topic it arrived on.
type MessageHandler func(topic string, payload []byte)

// Client is the unified messaging client (MQTT or Kafka).
type Client struct {
	mu       sync.RWMutex
	cfg      *config.MessagingConfig
	backend  string
	mqttConn mqtt.Client
	kafkaW   *kafkago.Writer
	kafkaR   map[string]*kafkago.Reader
	readCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewClient creates a messaging client based on config.
func NewClient(cfg *config.MessagingConfig) *Client {
	return &Client{
		cfg:     cfg,
		backend: cfg.Backend,
		kafkaR:  make(map[string]*kafkago.Reader),
	}
}

// Connect establishes the messaging connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.backend {
	case "mqtt":
		return c.connectMQTT()
	case "kafka":
		return c.connectKafka()
	default:
		return fmt.Errorf("unknown messaging backend: %s", c.backend)
	}
}

func (c *Client) connectMQTT() error {
	broker := fmt.Sprintf("tcp://%s:%d", c.cfg.MQTT.Broker, c.cfg.MQTT.Port)
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(c.cfg.MQTT.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("messaging: mqtt connection lost: %v", err)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect: timeout reaching %s", broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	c.mqttConn = client
	log.Printf("messaging: mqtt connected to %s", broker)
	return nil
}

func (c *Client) connectKafka() error {
	if len(c.cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var connErr error
	for _, broker := range c.cfg.Kafka.Brokers {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err == nil {
			conn.Close()
			connErr = nil
			log.Printf("messaging: kafka connected to %s", broker)
			break
		}
		connErr = err
	}
	if connErr != nil {
		return fmt.Errorf("kafka connect: %w", connErr)
	}

	c.kafkaW = &kafkago.Writer{
		Addr:                   kafkago.TCP(c.cfg.Kafka.Brokers...),
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return nil
}

// Publish sends a message to the given topic.
func (c *Client) Publish(topic string, payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.backend {
	case "mqtt":
		if c.mqttConn == nil || !c.mqttConn.IsConnected() {
			return fmt.Errorf("mqtt not connected")
		}
		token := c.mqttConn.Publish(topic, c.cfg.MQTT.QoS, false, payload)
		token.Wait()
		return token.Error()
	case "kafka":
		if c.kafkaW == nil {
			return fmt.Errorf("kafka writer not initialized")
		}
		return c.kafkaW.WriteMessages(context.Background(), kafkago.Message{
			Topic: topic,
			Value: payload,
		})
	default:
		return fmt.Errorf("unknown backend: %s", c.backend)
	}
}

// Subscribe registers a handler for messages on topic. Kafka topics get one
// consumer-group reader each.
func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.backend {
	case "mqtt":
		if c.mqttConn == nil {
			return fmt.Errorf("mqtt not connected")
		}
		token := c.mqttConn.Subscribe(topic, c.cfg.MQTT.QoS, func(_ mqtt.Client, msg mqtt.Message) {
			handler(msg.Topic(), msg.Payload())
		})
		token.Wait()
		return token.Error()
	case "kafka":
		if c.kafkaW == nil {
			return fmt.Errorf("kafka not connected")
		}
		if _, ok := c.kafkaR[topic]; ok {
			return fmt.Errorf("already subscribed to %s", topic)
		}
		if c.cancel == nil {
			c.readCtx, c.cancel = context.WithCancel(context.Background())
		}
		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers: c.cfg.Kafka.Brokers,
			Topic:   topic,
			GroupID: c.cfg.Kafka.GroupID,
		})
		c.kafkaR[topic] = reader
		c.wg.Add(1)
		go c.readLoop(c.readCtx, reader, handler)
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.backend)
	}
}

func (c *Client) readLoop(ctx context.Context, reader *kafkago.Reader, handler MessageHandler) {
	defer c.wg.Done()
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
				log.Printf("messaging: kafka read %s: %v", reader.Config().Topic, err)
			}
			return
		}
		handler(msg.Topic, msg.Value)
	}
}

// IsConnected returns whether the messaging client is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.backend {
	case "mqtt":
		return c.mqttConn != nil && c.mqttConn.IsConnected()
	case "kafka":
		return c.kafkaW != nil
	default:
		return false
	}
}

// Close shuts down the messaging connection and waits for Kafka readers to stop.
func (c *Client) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.mqttConn != nil {
		c.mqttConn.Disconnect(1000)
		c.mqttConn = nil
	}
	for topic, r := range c.kafkaR {
		r.Close()
		delete(c.kafkaR, topic)
	}
	if c.kafkaW != nil {
		c.kafkaW.Close()
		c.kafkaW = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}
