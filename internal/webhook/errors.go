package webhook

import "errors"

var (
	ErrInvalidPayload      = errors.New("invalid webhook payload")
	ErrIgnored             = errors.New("event has no bucket")
	ErrSecretNotConfigured = errors.New("webhook secret not configured")
	ErrInvalidToken        = errors.New("invalid token")
	ErrIPNotAllowed        = errors.New("ip not whitelisted")
	ErrRateLimited         = errors.New("rate limit exceeded")
)
