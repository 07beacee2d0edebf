package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"

	"mikune/config"
	"mikune/events"
)

// MetricsProvider manages OpenTelemetry metrics for the economy
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	commandsCounter            metric.Int64Counter
	commandDurationHist        metric.Float64Histogram
	ledgerEntriesCounter       metric.Int64Counter
	ledgerVolumeCounter        metric.Int64Counter
	interestDistributedCounter metric.Int64Counter
	loansIssuedCounter         metric.Int64Counter
	natsPublishedCounter       metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := newResource(mp.config)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)

	if err := mp.createInstruments(mp.meterProvider.Meter(MetricPrefix)); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// newResource describes this service. The semconv schema must match the one
// resource.Default uses or the merge fails.
func newResource(cfg *config.Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.OTelServiceName),
			attribute.String("environment", cfg.Environment),
		),
	)
}

// createInstruments creates all metric instruments on meter
func (mp *MetricsProvider) createInstruments(meter metric.Meter) error {
	var err error
	mp.meter = meter

	mp.commandsCounter, err = meter.Int64Counter(
		CommandsTotal,
		metric.WithDescription("Total number of slash commands handled"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create commands counter: %w", err)
	}

	mp.commandDurationHist, err = meter.Float64Histogram(
		CommandDuration,
		metric.WithDescription("Duration of slash command handling in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
	)
	if err != nil {
		return fmt.Errorf("failed to create command duration histogram: %w", err)
	}

	mp.ledgerEntriesCounter, err = meter.Int64Counter(
		LedgerEntriesTotal,
		metric.WithDescription("Total number of ledger entries recorded"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger entries counter: %w", err)
	}

	mp.ledgerVolumeCounter, err = meter.Int64Counter(
		LedgerVolumeTotal,
		metric.WithDescription("Absolute currency moved by ledger entries"),
		metric.WithUnit("{coin}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger volume counter: %w", err)
	}

	mp.interestDistributedCounter, err = meter.Int64Counter(
		InterestDistributedTotal,
		metric.WithDescription("Savings interest credited to banks"),
		metric.WithUnit("{coin}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create interest counter: %w", err)
	}

	mp.loansIssuedCounter, err = meter.Int64Counter(
		LoansIssuedTotal,
		metric.WithDescription("Total number of loans issued"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create loans counter: %w", err)
	}

	mp.natsPublishedCounter, err = meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of events mirrored to NATS"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS published counter: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the exporter
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordCommand records a handled slash command
func (mp *MetricsProvider) RecordCommand(command, outcome string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelCommand, command),
		attribute.String(LabelOutcome, outcome),
	)
	mp.commandsCounter.Add(context.Background(), 1, attrs)
	mp.commandDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// RecordNATSMessagePublished records an event mirrored to NATS
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType events.EventType) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, string(eventType))),
	)
}

// ObserveEvent updates ledger metrics from a bus event
func (mp *MetricsProvider) ObserveEvent(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.BalanceChangeEvent:
		attrs := metric.WithAttributes(
			attribute.String(LabelType, string(e.TransactionType)),
			attribute.String(LabelPool, string(e.Pool)),
		)
		mp.ledgerEntriesCounter.Add(ctx, 1, attrs)
		volume := e.ChangeAmount
		if volume < 0 {
			volume = -volume
		}
		mp.ledgerVolumeCounter.Add(ctx, volume, attrs)
	case events.InterestAppliedEvent:
		mp.interestDistributedCounter.Add(ctx, e.Amount)
	case events.LoanIssuedEvent:
		mp.loansIssuedCounter.Add(ctx, 1)
	}
}

// Attach feeds every bus event into ObserveEvent
func (mp *MetricsProvider) Attach(bus *events.Bus) {
	bus.SubscribeAll(mp.ObserveEvent)
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider. It is safe to call
// Record methods on the result before initialization.
func GetMetrics() *MetricsProvider {
	if globalMetrics == nil {
		return &MetricsProvider{config: &config.Config{}}
	}
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
