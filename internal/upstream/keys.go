package upstream

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// QuotaState is what the rotator knows about a credential's allowance.
type QuotaState int32

const (
	QuotaUnknown QuotaState = iota
	QuotaOK
	QuotaExhausted
)

func (s QuotaState) String() string {
	switch s {
	case QuotaOK:
		return "ok"
	case QuotaExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Credential is one upstream API key together with its priority slot.
type Credential struct {
	Index int
	Key   string
}

// Masked returns the key with all but the last four characters hidden.
func (c Credential) Masked() string {
	return maskKey(c.Key)
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// KeyStatus is a point-in-time view of one credential, safe to expose.
type KeyStatus struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	State string `json:"state"`
}

// KeyRotator hands out upstream credentials in fixed priority order, skipping
// exhausted ones. Exhaustion is monotonic for the life of the process, so
// concurrent callers racing to mark the same key cannot corrupt state.
type KeyRotator struct {
	keys   []string
	states []atomic.Int32
	logger *zap.Logger
}

// NewKeyRotator creates a rotator over keys, highest priority first.
func NewKeyRotator(keys []string, logger *zap.Logger) *KeyRotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return &KeyRotator{
		keys:   cleaned,
		states: make([]atomic.Int32, len(cleaned)),
		logger: logger,
	}
}

// Len returns the number of configured credentials.
func (r *KeyRotator) Len() int {
	return len(r.keys)
}

// SelectCredential returns the first credential that is not exhausted.
func (r *KeyRotator) SelectCredential() (Credential, error) {
	for i, key := range r.keys {
		if QuotaState(r.states[i].Load()) != QuotaExhausted {
			return Credential{Index: i, Key: key}, nil
		}
	}
	return Credential{}, ErrNoCredentialsAvailable
}

// MarkExhausted flags c so it is never selected again. Idempotent.
func (r *KeyRotator) MarkExhausted(c Credential) {
	if !r.owns(c) {
		return
	}
	if QuotaState(r.states[c.Index].Swap(int32(QuotaExhausted))) != QuotaExhausted {
		r.logger.Warn("upstream API key exhausted",
			zap.Int("index", c.Index),
			zap.String("key", c.Masked()),
			zap.Int("remaining", r.remaining()))
	}
}

// MarkOK records a successful call. It never clears an exhaustion flag.
func (r *KeyRotator) MarkOK(c Credential) {
	if !r.owns(c) {
		return
	}
	r.states[c.Index].CompareAndSwap(int32(QuotaUnknown), int32(QuotaOK))
}

// Status returns a masked snapshot of every credential.
func (r *KeyRotator) Status() []KeyStatus {
	out := make([]KeyStatus, len(r.keys))
	for i, key := range r.keys {
		out[i] = KeyStatus{
			Index: i,
			Key:   maskKey(key),
			State: QuotaState(r.states[i].Load()).String(),
		}
	}
	return out
}

func (r *KeyRotator) owns(c Credential) bool {
	return c.Index >= 0 && c.Index < len(r.keys) && r.keys[c.Index] == c.Key
}

func (r *KeyRotator) remaining() int {
	n := 0
	for i := range r.states {
		if QuotaState(r.states[i].Load()) != QuotaExhausted {
			n++
		}
	}
	return n
}
