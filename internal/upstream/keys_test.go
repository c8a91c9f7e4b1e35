package upstream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRotatorSelectsInPriorityOrder(t *testing.T) {
	r := NewKeyRotator([]string{"first-key", " ", "second-key"}, nil)
	require.Equal(t, 2, r.Len())

	c, err := r.SelectCredential()
	require.NoError(t, err)
	assert.Equal(t, "first-key", c.Key)
	assert.Equal(t, 0, c.Index)

	// Selecting again without marking returns the same key.
	again, err := r.SelectCredential()
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestKeyRotatorMarkExhausted(t *testing.T) {
	r := NewKeyRotator([]string{"a-key-1", "b-key-2"}, nil)

	first, _ := r.SelectCredential()
	r.MarkExhausted(first)
	r.MarkExhausted(first)

	second, err := r.SelectCredential()
	require.NoError(t, err)
	assert.Equal(t, "b-key-2", second.Key)

	r.MarkOK(first)
	c, err := r.SelectCredential()
	require.NoError(t, err)
	assert.Equal(t, "b-key-2", c.Key, "MarkOK must not revive an exhausted key")

	r.MarkExhausted(second)
	_, err = r.SelectCredential()
	assert.ErrorIs(t, err, ErrNoCredentialsAvailable)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestKeyRotatorNoKeys(t *testing.T) {
	r := NewKeyRotator(nil, nil)
	_, err := r.SelectCredential()
	assert.ErrorIs(t, err, ErrNoCredentialsAvailable)
}

func TestKeyRotatorIgnoresForeignCredential(t *testing.T) {
	r := NewKeyRotator([]string{"real-key"}, nil)

	r.MarkExhausted(Credential{Index: 0, Key: "other"})
	r.MarkExhausted(Credential{Index: 7, Key: "real-key"})

	c, err := r.SelectCredential()
	require.NoError(t, err)
	assert.Equal(t, "real-key", c.Key)
}

func TestKeyRotatorStatus(t *testing.T) {
	r := NewKeyRotator([]string{"abcdefgh", "xyz", "ijklmnop"}, nil)
	c0, _ := r.SelectCredential()
	r.MarkOK(c0)
	r.MarkExhausted(Credential{Index: 1, Key: "xyz"})

	assert.Equal(t, []KeyStatus{
		{Index: 0, Key: "****efgh", State: "ok"},
		{Index: 1, Key: "***", State: "exhausted"},
		{Index: 2, Key: "****mnop", State: "unknown"},
	}, r.Status())
}

func TestKeyRotatorConcurrentMarking(t *testing.T) {
	r := NewKeyRotator([]string{"k1", "k2", "k3"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c, err := r.SelectCredential(); err == nil {
				r.MarkExhausted(c)
			}
		}()
	}
	wg.Wait()

	_, err := r.SelectCredential()
	assert.ErrorIs(t, err, ErrNoCredentialsAvailable)
}
