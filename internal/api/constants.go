package api

// API limits and constants.
const (
	// MaxFeedLimit is the largest review feed page.
	MaxFeedLimit = 100

	codeRateLimited = "RATE_LIMITED"
)

// Cache-Control header values.
const (
	CacheOneDay      = "public, max-age=86400"
	CacheFiveMinutes = "private, max-age=300"
	CacheNoStore     = "no-store"
)
