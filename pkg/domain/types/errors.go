package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures for callers. Fatal tags abort the run;
// everything else is absorbed into a degraded verdict or a fallback path.
var (
	// ErrTagInvalidArgument marks malformed caller input (empty owner/repo,
	// non-positive PR number, missing required configuration).
	ErrTagInvalidArgument = goerr.NewTag("invalid_argument")

	// ErrTagNotFound marks 404 responses from the repository provider.
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagPermissionDenied marks 403 responses that are genuine
	// permission errors, not rate limits.
	ErrTagPermissionDenied = goerr.NewTag("permission_denied")

	// ErrTagProvider marks any other repository provider failure,
	// including retry exhaustion.
	ErrTagProvider = goerr.NewTag("provider")

	// ErrTagTimeout marks the orchestrator deadline being exceeded.
	ErrTagTimeout = goerr.NewTag("timeout")
)
