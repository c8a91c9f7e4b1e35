package upstream

import (
	"net/url"
	"strconv"
	"strings"
)

// apiKeyParam is the query parameter the upstream API reads credentials from.
const apiKeyParam = "apiKey"

// CacheKey builds the canonical cache key for a request. Fields are sorted by
// name and the credential is never part of the key, so the same logical
// request hits the same entry whichever key served it.
func CacheKey(endpoint string, params url.Values) string {
	q := cloneValues(params)
	q.Del(apiKeyParam)
	key := "upstream:" + strings.Trim(endpoint, "/")
	if enc := q.Encode(); enc != "" {
		key += "?" + enc
	}
	return key
}

func cloneValues(params url.Values) url.Values {
	out := make(url.Values, len(params)+1)
	for k, vs := range params {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// JoinIDs renders ids as the comma-joined list the bulk endpoint expects.
func JoinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
