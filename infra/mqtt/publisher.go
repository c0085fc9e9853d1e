package mqtt

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/factory"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/logger"
)

func init() {
	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.Sink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		p, err := NewPublisher(c)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// StateMessage is the payload published on the state topic.
type StateMessage struct {
	RunID     string           `json:"run_id"`
	Timestamp int64            `json:"timestamp"`
	State     circuit.Snapshot `json:"state"`
}

// TransitionMessage is the payload published on the connection topic.
type TransitionMessage struct {
	RunID     string                  `json:"run_id"`
	Timestamp int64                   `json:"timestamp"`
	From      circuit.ConnectionState `json:"from"`
	To        circuit.ConnectionState `json:"to"`
	ElapsedMS int64                   `json:"elapsed_ms"`
}

// Publisher streams circuit snapshots to an MQTT broker.
type Publisher struct {
	cli    pahoClient
	cfg    Config
	logger logger.Logger
}

// NewPublisher connects to the broker and announces itself online.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_publisher")
	p := &Publisher{cfg: cfg, logger: log}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	if err := p.publish(cfg.StatusTopic(), true, []byte("online")); err != nil {
		log.Warnf("publish status: %v", err)
	}
	return p, nil
}

func (p *Publisher) publish(topic string, retain bool, payload []byte) error {
	token := p.cli.Publish(topic, p.cfg.QoS, retain, payload)
	if !token.WaitTimeout(p.cfg.PublishTimeout) {
		return fmt.Errorf("publish to %s timed out after %s", topic, p.cfg.PublishTimeout)
	}
	return token.Error()
}

// RecordSnapshot publishes the snapshot as JSON on the state topic.
func (p *Publisher) RecordSnapshot(ev coremetrics.SnapshotEvent) error {
	payload, err := json.Marshal(StateMessage{
		RunID:     ev.RunID,
		Timestamp: ev.Time.UnixMilli(),
		State:     ev.Snapshot,
	})
	if err != nil {
		return err
	}
	return p.publish(p.cfg.StateTopic(), p.cfg.Retain, payload)
}

// RecordTransition publishes connection changes. They are always retained
// so a new subscriber learns the current switch position.
func (p *Publisher) RecordTransition(ev coremetrics.TransitionEvent) error {
	payload, err := json.Marshal(TransitionMessage{
		RunID:     ev.RunID,
		Timestamp: ev.Time.UnixMilli(),
		From:      ev.From,
		To:        ev.To,
		ElapsedMS: ev.Elapsed.Milliseconds(),
	})
	if err != nil {
		return err
	}
	if err := p.publish(p.cfg.ConnectionTopic(), true, payload); err != nil {
		return err
	}
	p.logger.Debugf("published transition %s -> %s", ev.From, ev.To)
	return nil
}

// Close marks the publisher offline and disconnects.
func (p *Publisher) Close() error {
	if p.cli == nil || !p.cli.IsConnected() {
		return nil
	}
	err := p.publish(p.cfg.StatusTopic(), true, []byte("offline"))
	p.cli.Disconnect(250)
	return err
}
