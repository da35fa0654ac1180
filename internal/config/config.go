package config

import "time"

const (
	DefaultTimeZone = "America/Sao_Paulo"

	// Upload limits
	MaxUploadBytes = 32 << 20

	// Snapshot store batching
	CopyBatchSize = 1000

	// Every database call carries a bounded timeout; reads that exceed it are
	// retried as transient, writes roll back.
	DBCallTimeout = 30 * time.Second

	// Retry policy for transient DB failures
	TransientRetries     = 3
	TransientBackoffBase = 500 * time.Millisecond

	// StorageConflict (unique/serialization violation) is retried once
	ConflictRetries = 1

	// Jobs
	DefaultUnmappedCodesSchedule = "0 3 * * *"
)
