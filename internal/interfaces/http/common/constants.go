package common

const (
	// MaxRequestBody limits JSON request bodies for spot endpoints.
	MaxRequestBody = 1 << 20
	// DefaultPageLimit is the page size used when the client sends none.
	DefaultPageLimit = 20
)
