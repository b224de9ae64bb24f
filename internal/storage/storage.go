// Package storage persists wallet state through a simple key-value
// collaborator, swappable between a durable local store and an in-memory one.
package storage

// Store is the key-value collaborator the wallet persists through. Values are
// opaque byte strings; Get reports presence separately from errors.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Clear() error
}
