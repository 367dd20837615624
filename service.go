package regulators

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"

	cfg "github.com/powerctl/regulators/config"
	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/manager"
	"github.com/powerctl/regulators/regulator"
	"github.com/powerctl/regulators/service"
	"github.com/powerctl/regulators/service/memory"
	"github.com/powerctl/regulators/tracing"
)

// Service is the high-level façade over the regulator engine.  It owns the
// configuration parser, the external services collaborator and, once a
// configuration is loaded, the manager driving the topology.
type Service struct {
	config     *Config
	services   service.Services
	i2cFactory i2c.Factory
	registry   *cfg.Registry
	fs         afs.Service
	manager    *manager.Manager
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.services == nil {
		s.services = memory.New(memory.WithJournal(service.NewSlogJournal(nil)))
	}
	if s.registry == nil {
		s.registry = cfg.NewRegistry()
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.i2cFactory == nil {
		s.i2cFactory = func(bus uint, address uint8) i2c.Interface {
			return i2c.New(bus, address)
		}
	}
}

// New creates a service with the supplied options.  Without options the
// service uses in-memory platform services with journal output going to the
// default slog logger, and devices get transport free I2C handles.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}

// NewFromConfig creates a service from a validated configuration.
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return New(append([]Option{WithConfig(config)}, options...)...), nil
}

// LoadConfig parses the configuration document at URL and replaces the
// managed topology.  Previous error history and cached hardware state are
// discarded.
func (s *Service) LoadConfig(ctx context.Context, URL string) error {
	parser := cfg.New(
		cfg.WithRegistry(s.registry),
		cfg.WithI2CFactory(s.i2cFactory),
		cfg.WithFS(s.fs),
	)
	parsed, err := parser.Parse(ctx, URL)
	if err != nil {
		return err
	}
	system := regulator.NewSystem(parsed.Rules, parsed.Chassis)
	s.manager = manager.New(system, s.services)
	s.services.Journal().Info("Loaded configuration file " + URL)
	return nil
}

// System returns the managed topology, or nil before LoadConfig.
func (s *Service) System() *regulator.System {
	if s.manager == nil {
		return nil
	}
	return s.manager.System()
}

// Manager returns the topology manager, or nil before LoadConfig.
func (s *Service) Manager() *manager.Manager { return s.manager }

// Services returns the external services collaborator.
func (s *Service) Services() service.Services { return s.services }

// Configure applies the configuration of every device and rail.
func (s *Service) Configure(ctx context.Context) error {
	if s.manager == nil {
		return fmt.Errorf("no configuration loaded")
	}
	s.manager.Configure(ctx)
	return nil
}

// MonitorSensors runs one sensor monitoring cycle over all rails.
func (s *Service) MonitorSensors(ctx context.Context) error {
	if s.manager == nil {
		return fmt.Errorf("no configuration loaded")
	}
	s.manager.MonitorSensors(ctx)
	return nil
}

// Start loads the configured file, configures the system and then monitors
// sensors periodically until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "regulators.start")
	defer tracing.EndSpan(span, nil)

	if s.config.ConfigFile == "" {
		return fmt.Errorf("no configuration file set")
	}
	if err := s.LoadConfig(ctx, s.config.ConfigFile); err != nil {
		return err
	}
	if err := s.Configure(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.config.Monitor.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.manager.MonitorSensors(ctx)
		}
	}
}
