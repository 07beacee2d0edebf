package observability

// MetricPrefix prefixes every metric name
const MetricPrefix = "mikune"

// Metric names
const (
	// Discord metrics
	CommandsTotal   = MetricPrefix + ".commands.total"
	CommandDuration = MetricPrefix + ".commands.duration"

	// Ledger metrics
	LedgerEntriesTotal       = MetricPrefix + ".ledger.entries_total"
	LedgerVolumeTotal        = MetricPrefix + ".ledger.volume_total"
	InterestDistributedTotal = MetricPrefix + ".interest.distributed_total"
	LoansIssuedTotal         = MetricPrefix + ".loans.issued_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelCommand   = "command"
	LabelOutcome   = "outcome"
	LabelPool      = "pool"
)

// Command outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
