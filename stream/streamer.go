package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/slidetrace/trace"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a
// publish in time.
var ErrPublishTimeout = errors.New("publish timed out")

// A Publisher is the part of an MQTT client the Streamer needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Streamer publishes rendered documents to an MQTT broker: the whole
// fragment first, then every stage on its own topic.
type Streamer struct {
	client  Publisher
	config  Config
	log     *slog.Logger
	timeout time.Duration
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client Publisher, logger *slog.Logger) *Streamer {
	s := new(Streamer)
	s.client = client
	s.config = config
	s.log = logger
	s.timeout = config.Mqtt.Timeout
	if s.timeout <= 0 {
		s.timeout = DefaultConfig().Mqtt.Timeout
	}
	return s
}

// Send publishes doc under name. Topics are retained so late subscribers
// receive the latest document.
func (s *Streamer) Send(name string, doc trace.Document) error {
	topics := s.config.Mqtt.Topics
	if err := s.publish(topic(topics.Document, name), doc.Text); err != nil {
		return err
	}

	for i, body := range doc.Stages {
		if err := s.publish(fmt.Sprintf("%s/%d", topic(topics.Stages, name), i+1), body); err != nil {
			return err
		}
	}

	s.log.Info("published document", "name", name, "stages", len(doc.Stages))
	return nil
}

func (s *Streamer) publish(topic, payload string) error {
	token := s.client.Publish(topic, 2, true, []byte(payload))
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("%s: %w", topic, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: %w", topic, err)
	}
	s.log.Debug("published", "topic", topic, "bytes", len(payload))
	return nil
}

func topic(base, name string) string {
	if name == "" {
		return base
	}
	return base + "/" + name
}

// RouteClientLogs sends the MQTT client's error log through logger.
func RouteClientLogs(logger *slog.Logger) {
	mqtt.ERROR = slog.NewLogLogger(logger.Handler(), slog.LevelError)
}

// Connect creates an MQTT client from the config and connects it. Client
// errors are logged through logger.
func Connect(config Config, logger *slog.Logger) (mqtt.Client, error) {
	RouteClientLogs(logger)
	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetConnectTimeout(config.Mqtt.Timeout)
	client := mqtt.NewClient(options)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}
