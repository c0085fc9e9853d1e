package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/logger"
)

// InfluxConfig locates the bucket snapshots are written to.
type InfluxConfig struct {
	URL     string        `json:"url"`
	Token   string        `json:"token"`
	Org     string        `json:"org"`
	Bucket  string        `json:"bucket"`
	Timeout time.Duration `json:"timeout"`
}

func (c *InfluxConfig) setDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// InfluxSink writes circuit_state and circuit_transition points.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	timeout  time.Duration
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given endpoint without contacting it.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	cfg.setDefaults()
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		timeout:  cfg.Timeout,
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance and returns a NopSink when
// the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), sink.timeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func snapshotPoint(ev coremetrics.SnapshotEvent) *write.Point {
	s := ev.Snapshot
	return write.NewPointWithMeasurement("circuit_state").
		AddTag("run_id", ev.RunID).
		AddTag("connection", s.Connection.String()).
		AddField("elapsed_s", s.Elapsed.Seconds()).
		AddField("battery_voltage", s.BatteryVoltage).
		AddField("plate_width", s.PlateWidth).
		AddField("plate_separation", s.PlateSeparation).
		AddField("capacitance", s.Capacitance).
		AddField("plate_voltage", s.PlateVoltage).
		AddField("plate_charge", s.PlateCharge).
		AddField("stored_energy", s.StoredEnergy).
		AddField("effective_efield", s.EffectiveEField).
		AddField("current_amplitude", s.CurrentAmplitude).
		AddField("disconnected_charge", s.DisconnectedPlateCharge).
		SetTime(ev.Time)
}

// RecordSnapshot writes one circuit_state point.
func (s *InfluxSink) RecordSnapshot(ev coremetrics.SnapshotEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, snapshotPoint(ev))
}

// RecordTransition writes one circuit_transition point.
func (s *InfluxSink) RecordTransition(ev coremetrics.TransitionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	p := write.NewPointWithMeasurement("circuit_transition").
		AddTag("run_id", ev.RunID).
		AddTag("from", ev.From.String()).
		AddTag("to", ev.To.String()).
		AddField("elapsed_s", ev.Elapsed.Seconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
