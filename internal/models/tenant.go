package models

// Tenant is one transport operator with a fully isolated data store.
// Key is the stable catalog key; DSN identifies the backing store.
// Tenants are immutable after load and only change on explicit reload.
type Tenant struct {
	Key string `json:"key"`
	DSN string `json:"dsn"`
}
