// Package application provides application-level services and dependency injection.
package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jbctechsolutions/gtc/internal/application/counting"
	"github.com/jbctechsolutions/gtc/internal/domain/count"
	"github.com/jbctechsolutions/gtc/internal/domain/encoding"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/config"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/logging"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/tokenizer"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/tracing"
)

// Container holds all application dependencies and provides a central
// point for dependency injection. It manages the lifecycle of services
// and ensures proper initialization order.
type Container struct {
	config  *config.Config
	verbose bool // Lowers the log level to info when true

	logOutput io.Writer

	logger *logging.Logger
	tracer *tracing.Tracer

	resolver *encoding.Resolver
	factory  count.TokenizerFactory
	counter  *counting.Service
}

// Option customizes a Container before its services are built.
type Option func(*Container)

// WithTokenizerFactory replaces the tiktoken-backed tokenizer factory.
func WithTokenizerFactory(f count.TokenizerFactory) Option {
	return func(c *Container) {
		c.factory = f
	}
}

// WithLogOutput sends log records to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(c *Container) {
		c.logOutput = w
	}
}

// NewContainer creates a new dependency injection container with all services
// initialized based on the provided configuration.
func NewContainer(cfg *config.Config, verbose bool, opts ...Option) (*Container, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := &Container{
		config:  cfg,
		verbose: verbose,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.initObservability(); err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	if err := c.initServices(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return c, nil
}

// initObservability initializes logging and tracing.
func (c *Container) initObservability() error {
	logLevel := logging.Level(c.config.Logging.Level)

	logFormat := logging.FormatText
	if c.config.Logging.Format == "json" {
		logFormat = logging.FormatJSON
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logLevel
	logCfg.Format = logFormat
	if c.logOutput != nil {
		logCfg.Output = c.logOutput
	}
	c.logger = logging.New(logCfg)
	// --verbose raises the level to info but keeps a configured debug level.
	if c.verbose && logging.ParseLevel(logLevel) > slog.LevelInfo {
		c.logger.SetLevel(logging.LevelInfo)
	}

	tc := c.config.Observability.Tracing
	if !tc.Enabled {
		c.tracer = tracing.Default()
		return nil
	}

	tracer, err := tracing.New(context.Background(), tracing.Config{
		Enabled:      true,
		ExporterType: tracing.ExporterType(tc.ExporterType),
		OTLPEndpoint: tc.OTLPEndpoint,
		ServiceName:  tc.ServiceName,
		Environment:  "production",
		SampleRate:   tc.SampleRate,
		Output:       c.traceOutput(),
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	c.tracer = tracer
	return nil
}

// traceOutput keeps stdout span dumps off stdout, which carries counts and
// the MCP protocol.
func (c *Container) traceOutput() io.Writer {
	if c.logOutput != nil {
		return c.logOutput
	}
	return os.Stderr
}

// initServices builds the resolver, tokenizer factory and counting service.
func (c *Container) initServices() error {
	resolverOpts := []encoding.Option{
		encoding.WithModels(c.config.Models),
		encoding.WithDefaultEncoding(c.config.Defaults.Encoding),
	}
	if c.config.Defaults.Model != "" {
		resolverOpts = append(resolverOpts, encoding.WithDefaultModel(c.config.Defaults.Model))
	}

	resolver, err := encoding.NewResolver(resolverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create resolver: %w", err)
	}
	c.resolver = resolver

	if c.factory == nil {
		c.factory = tokenizer.NewFactory(tokenizer.Options{
			Offline:  c.config.Tokenizer.Offline,
			CacheDir: c.config.Tokenizer.CacheDir,
		})
	}

	counter, err := counting.NewService(c.resolver, c.factory, c.logger, c.tracer, c.config.Tokenizer.Concurrency)
	if err != nil {
		return fmt.Errorf("failed to create counting service: %w", err)
	}
	c.counter = counter

	return nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.tracer != nil {
		return c.tracer.Shutdown(context.Background())
	}
	return nil
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger.
func (c *Container) Logger() *logging.Logger {
	return c.logger
}

// Tracer returns the application tracer.
func (c *Container) Tracer() *tracing.Tracer {
	return c.tracer
}

// Counter returns the counting service.
func (c *Container) Counter() *counting.Service {
	return c.counter
}
