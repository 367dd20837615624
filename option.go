package regulators

import (
	"github.com/viant/afs"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	cfg "github.com/powerctl/regulators/config"
	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/service"
	"github.com/powerctl/regulators/tracing"
)

// Option customizes a Service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithServices sets the external platform services.
func WithServices(services service.Services) Option {
	return func(s *Service) { s.services = services }
}

// WithI2CFactory sets the factory creating the I2C handle of each device
// declared in the configuration file.
func WithI2CFactory(factory i2c.Factory) Option {
	return func(s *Service) { s.i2cFactory = factory }
}

// WithRegistry sets the action parser registry, typically to register
// additional action types before loading a configuration.
func WithRegistry(registry *cfg.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithFS sets the file system service used to load configuration documents.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithTracingExporter enables span export through the supplied exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
