package store

import "errors"

// DefaultKey is the slot the register is kept under.
const DefaultKey = "kr_duty_register_v1"

// ErrCorrupt marks a stored value that could not be decoded.
var ErrCorrupt = errors.New("corrupt stored data")

// KV is durable local key/value storage. Get reports found=false for a
// missing key rather than an error.
type KV interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

var (
	_ KV = (*Store)(nil)
	_ KV = (*FileKV)(nil)
)
