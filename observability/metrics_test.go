package observability

import (
	"context"
	"testing"
	"time"

	"mikune/config"
	"mikune/events"
	"mikune/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

func TestMetricsProvider_Disabled(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	// Recording on a disabled provider is a no-op
	mp.RecordCommand("balance", OutcomeSuccess, time.Millisecond)
	mp.RecordNATSMessagePublished(events.EventTypeBalanceChange)
	mp.ObserveEvent(context.Background(), events.BalanceChangeEvent{ChangeAmount: -10})

	require.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewResource_MergesWithSDKDefault(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelServiceName = "mikune-test"

	res, err := newResource(cfg)
	require.NoError(t, err)
	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "mikune-test", name.AsString())
}

func TestMetricsProvider_NoneExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	mp := NewMetricsProvider(cfg)
	err := mp.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter type")
}

func TestMetricsProvider_ConsoleExporterRecords(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "console"
	cfg.OTelExportIntervalMillis = 60000

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	assert.True(t, mp.isEnabled())

	bus := events.NewBus()
	mp.Attach(bus)

	assert.NotPanics(t, func() {
		mp.RecordCommand("deposit", OutcomeRejected, 3*time.Millisecond)
		mp.ObserveEvent(context.Background(), events.BalanceChangeEvent{
			UserID:          "1",
			TransactionType: models.TransactionTypeDeposit,
			Pool:            models.PoolBank,
			ChangeAmount:    500,
		})
		mp.ObserveEvent(context.Background(), events.LoanIssuedEvent{UserID: "1", Amount: 1000})
		bus.Emit(context.Background(), events.InterestAppliedEvent{UserID: "1", Amount: 20})
	})
}

func TestGetMetrics_BeforeInitialization(t *testing.T) {
	mp := GetMetrics()
	require.NotNil(t, mp)
	assert.NotPanics(t, func() {
		mp.RecordNATSMessagePublished(events.EventTypeLoanIssued)
	})
}
