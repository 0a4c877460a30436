package ports

// KeyValueStore is the local persistent key/value slot abstraction
// (the browser localStorage analog). Implementations must tolerate
// concurrent access.
//
// Callers decide what to do with errors; the analytics queue and the
// token store log and keep going, so a failing store never propagates
// to their callers.
type KeyValueStore interface {
	// Get returns the raw value for key. ok is false when the key is
	// absent; err is reserved for I/O failures.
	Get(key string) (value []byte, ok bool, err error)

	// Set writes the raw value for key.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
