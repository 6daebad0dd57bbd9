// Package tokenstore persists bearer tokens between runs.
//
// A Store is the platform storage capability injected into the session
// provider: the same session logic runs against the OS keyring, a local
// SQLite key-value file, process memory, or no storage at all.
package tokenstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when no token is stored under the key
var ErrNotFound = errors.New("token not found")

// Store defines token storage operations
type Store interface {
	Load(key string) (string, error)
	Save(key, token string) error
	Delete(key string) error
}

// Kinds accepted by Open
const (
	KindAuto    = "auto"
	KindKeyring = "keyring"
	KindSQLite  = "sqlite"
	KindMemory  = "memory"
	KindNone    = "none"
)

// Open returns the store for kind. path is the database file used by the
// sqlite kind, and by auto when the OS keyring is not usable.
func Open(kind, path string) (Store, error) {
	switch kind {
	case KindKeyring:
		return NewKeyring(), nil
	case KindSQLite:
		return OpenSQLite(path)
	case KindMemory:
		return NewMemory(), nil
	case KindNone:
		return None{}, nil
	case KindAuto, "":
		if KeyringAvailable() {
			return NewKeyring(), nil
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown token store %q (want auto, keyring, sqlite, memory or none)", kind)
	}
}

// None is used when no persistent storage is available.
// Nothing is ever stored, so sessions last only as long as the process.
type None struct{}

func (None) Load(string) (string, error) { return "", ErrNotFound }
func (None) Save(string, string) error   { return nil }
func (None) Delete(string) error         { return nil }
