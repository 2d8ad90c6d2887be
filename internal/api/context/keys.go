package context

// Key types the values middleware injects into the request context.
type Key string

const (
	Claims Key = "claims"
	Tenant Key = "tenant"
	Params Key = "params"
)
