package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMalformedResponse indicates the provider answered with something that is not a verdict.
var ErrMalformedResponse = errors.New("ai response is not a valid verdict")
