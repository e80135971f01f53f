package types

import "time"

// Version is overwritten at build time via -ldflags
var Version = "dev"

const (
	// AppName is used for the CLI name and log attributes
	AppName = "warden"

	// ValidationTimeout bounds the span from a fetched snapshot to a final
	// verdict. The pipeline runs inside CI jobs with limited execution
	// budget, so a hung model call must fail the run instead of the job.
	ValidationTimeout = 30 * time.Second

	// DefaultCommentIdentifier is the hidden marker token embedded in
	// published comments when no identifier is configured.
	DefaultCommentIdentifier = "ai-validator"

	// DefaultStatusContext is the default commit status context label.
	DefaultStatusContext = "ai-validator"
)
