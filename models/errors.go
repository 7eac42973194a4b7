package models

import "errors"

// Collaborator and domain errors. Callers branch with errors.Is; transport
// details are attached by wrapping.
var (
	ErrEmbeddingUnavailable   = errors.New("embedding service unavailable")
	ErrCompletionUnavailable  = errors.New("completion service unavailable")
	ErrNoApplicableTable      = errors.New("no applicable design table retrieved")
	ErrCostFactorsUnavailable = errors.New("cost factors unavailable")
	ErrMalformedRecord        = errors.New("malformed evidence record")
)
