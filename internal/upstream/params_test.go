package upstream

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	a := url.Values{"query": {"pasta"}, "number": {"10"}, "apiKey": {"secret"}}
	b := url.Values{"number": {"10"}, "query": {"pasta"}}

	assert.Equal(t, CacheKey("/recipes/complexSearch", a), CacheKey("recipes/complexSearch", b))
	assert.Equal(t, "upstream:recipes/complexSearch?number=10&query=pasta", CacheKey("recipes/complexSearch", a))
	assert.Equal(t, "upstream:recipes/random", CacheKey("recipes/random", nil))
	assert.Equal(t, []string{"secret"}, a["apiKey"], "CacheKey must not modify its input")
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "101,102,7", JoinIDs([]int{101, 102, 7}))
	assert.Equal(t, "", JoinIDs(nil))
}

func TestErrorMatching(t *testing.T) {
	quota := &Error{Kind: KindQuotaExceeded, Endpoint: "recipes/random", StatusCode: 402}
	wrapped := fmt.Errorf("resolve: %w", quota)

	assert.ErrorIs(t, wrapped, ErrQuotaExceeded)
	assert.False(t, errors.Is(wrapped, ErrFatal))
	assert.Equal(t, KindQuotaExceeded, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "upstream recipes/random: quota exceeded (status 402)", quota.Error())

	noKeys := &Error{Kind: KindQuotaExceeded, Err: ErrNoCredentialsAvailable}
	assert.ErrorIs(t, noKeys, ErrNoCredentialsAvailable)
}
