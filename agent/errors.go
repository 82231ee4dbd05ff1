package agent

import "errors"

// ErrCredentialMissing means no API credentials are available for the
// requested generation service. Recoverable: surfaced to the caller so they
// can configure a key, never fatal to the editor.
var ErrCredentialMissing = errors.New("API credentials not configured")

// ErrUpstreamGeneration means a generation service returned an error or an
// unusable payload. The requesting element degrades to its placeholder state.
var ErrUpstreamGeneration = errors.New("upstream generation failed")
