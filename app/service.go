package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/phetsims/capacitor-lab-basics-sub000/config"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/monitoring"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/scenario"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/voltmeter"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/logger"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/metrics"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/mqtt"
	"github.com/phetsims/capacitor-lab-basics-sub000/internal/observable"
)

var errAlreadyRun = errors.New("service already ran")

// newPublisher is replaced in tests.
var newPublisher = func(cfg mqtt.Config) (coremetrics.Sink, error) {
	return mqtt.NewPublisher(cfg)
}

// Service wires a circuit to its voltmeter and the configured sinks and
// drives the frame loop.
type Service struct {
	Circuit   *circuit.ParallelCircuit
	Voltmeter *voltmeter.Voltmeter

	cfg     *config.Config
	stream  *observable.Stream[circuit.Snapshot]
	sink    coremetrics.Sink
	runID   string
	log     logger.Logger
	logFile io.Closer
	ran     bool
}

// Report is the outcome of a run.
type Report struct {
	RunID    string             `json:"run_id"`
	Frames   int                `json:"frames"`
	Final    circuit.Snapshot   `json:"final"`
	Reading  *voltmeter.Reading `json:"reading,omitempty"`
	Dropped  uint64             `json:"dropped"`
	Scenario *scenario.Result   `json:"-"`
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	var logFile io.Closer
	if lc := cfg.Logging; lc.File != "" {
		f, err := logger.ConfigureFile(lc.File, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		logFile = f
	}
	log := logger.New("service")

	stream := observable.NewStream[circuit.Snapshot](cfg.Simulation.BufferSize)
	c, err := circuit.NewParallelCircuit(cfg.Circuit,
		circuit.WithLogger(logger.New("circuit")),
		circuit.WithSnapshotStream(stream),
	)
	if err != nil {
		closeLog(logFile)
		return nil, fmt.Errorf("circuit: %w", err)
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		closeLog(logFile)
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.MQTT.Broker != "" {
		pub, err := newPublisher(cfg.MQTT)
		if err != nil {
			closeSink(sink)
			closeLog(logFile)
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		sink = coremetrics.NewMultiSink(sink, pub)
	}

	s := &Service{
		Circuit: c,
		cfg:     cfg,
		stream:  stream,
		sink:    sink,
		runID:   uuid.NewString(),
		log:     log,
		logFile: logFile,
	}
	if cfg.Voltmeter.Enabled {
		pos, neg := cfg.Voltmeter.Probes()
		s.Voltmeter = voltmeter.New(c, pos, neg)
		s.Voltmeter.MeasuredVoltage().Subscribe(func(r, _ voltmeter.Reading) {
			if v := r.Value(); v != nil {
				log.Debugw("voltmeter", map[string]any{"volts": *v})
			} else {
				log.Debugw("voltmeter", map[string]any{"volts": "unknown"})
			}
		})
	}
	return s, nil
}

// RunID identifies the snapshots this service records.
func (s *Service) RunID() string { return s.runID }

// Run applies the initial connection and steps the configured number of
// frames, paced on a ticker when realtime is set. It returns when the frames
// are done or ctx is canceled. A Service runs once.
func (s *Service) Run(ctx context.Context) (Report, error) {
	defer monitoring.Recover()
	done, err := s.start(ctx)
	if err != nil {
		return Report{}, err
	}
	if err := s.Circuit.SetConnection(s.cfg.Simulation.InitialConnection()); err != nil {
		s.finish(done)
		return Report{}, err
	}

	dt := s.cfg.Simulation.FrameInterval
	steps := s.cfg.Simulation.Steps
	s.log.Infof("run %s: %d frames of %s, connection %s", s.runID, steps, dt, s.Circuit.Connection())

	frames := 0
	var tick <-chan time.Time
	if s.cfg.Simulation.Realtime {
		t := time.NewTicker(dt)
		defer t.Stop()
		tick = t.C
	}
loop:
	for steps == 0 || frames < steps {
		if tick != nil {
			select {
			case <-ctx.Done():
				break loop
			case <-tick:
			}
		} else if ctx.Err() != nil {
			break
		}
		s.frame(dt)
		frames++
	}
	rep := s.report(frames)
	s.finish(done)
	rep.Dropped = s.stream.Dropped()
	s.log.Infof("run %s: %d frames, plate voltage %.6g V", s.runID, frames, rep.Final.PlateVoltage)
	return rep, nil
}

// RunScenario replays sc against the circuit and verifies its expectations.
func (s *Service) RunScenario(ctx context.Context, sc *scenario.Scenario) (Report, error) {
	defer monitoring.Recover()
	done, err := s.start(ctx)
	if err != nil {
		return Report{}, err
	}
	res, err := scenario.Run(s.Circuit, sc, logger.New("scenario"))
	rep := s.report(res.Frames)
	rep.Scenario = &res
	s.finish(done)
	rep.Dropped = s.stream.Dropped()
	if err != nil {
		return rep, err
	}
	return rep, scenario.Verify(sc, res.Final)
}

func (s *Service) start(ctx context.Context) (<-chan struct{}, error) {
	if s.ran {
		return nil, errAlreadyRun
	}
	s.ran = true
	if addr := s.cfg.Metrics.ListenAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return metrics.StartCollector(ctx, s.stream, s.sink, s.runID, logger.New("collector")), nil
}

func (s *Service) frame(dt time.Duration) {
	s.Circuit.Step(dt)
	if s.Voltmeter != nil {
		s.Voltmeter.Measure()
	}
}

func (s *Service) report(frames int) Report {
	rep := Report{RunID: s.runID, Frames: frames, Final: s.Circuit.Snapshot()}
	if s.Voltmeter != nil {
		r := s.Voltmeter.Measure()
		rep.Reading = &r
	}
	return rep
}

// finish closes the stream and waits for the collector to drain it.
func (s *Service) finish(done <-chan struct{}) {
	s.stream.Close()
	<-done
	if n := s.stream.Dropped(); n > 0 {
		s.log.Warnf("run %s: %d snapshots dropped", s.runID, n)
	}
}

// Close releases the sinks and the log file.
func (s *Service) Close() error {
	return errors.Join(closeSink(s.sink), closeLog(s.logFile))
}

func closeLog(f io.Closer) error {
	if f == nil {
		return nil
	}
	return f.Close()
}

func closeSink(sink coremetrics.Sink) error {
	if c, ok := sink.(coremetrics.Closer); ok {
		return c.Close()
	}
	return nil
}
