package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Upstream recipe API endpoints, relative to the base URL.
const (
	EndpointInformationBulk = "recipes/informationBulk"
	EndpointComplexSearch   = "recipes/complexSearch"
	EndpointRandom          = "recipes/random"
)

// InformationEndpoint is the single-recipe detail endpoint.
func InformationEndpoint(id int) string {
	return fmt.Sprintf("recipes/%d/information", id)
}

// SimilarEndpoint lists recipes similar to id.
func SimilarEndpoint(id int) string {
	return fmt.Sprintf("recipes/%d/similar", id)
}

// InformationBulk fetches full details for ids in one call. The response is a
// JSON array whose order is not guaranteed to match ids.
func (c *Client) InformationBulk(ctx context.Context, ids []int) (json.RawMessage, error) {
	return c.Fetch(ctx, EndpointInformationBulk, BulkParams(ids))
}

// BulkParams builds the query for the bulk-detail endpoint.
func BulkParams(ids []int) url.Values {
	return url.Values{
		"ids":              {JoinIDs(ids)},
		"includeNutrition": {"false"},
	}
}

// SearchQuery describes a complexSearch request.
type SearchQuery struct {
	Query        string
	Cuisine      string
	Diet         string
	Intolerances string
	Type         string
	Number       int
	Offset       int
}

// Params renders q as upstream query parameters, omitting empty filters.
func (q SearchQuery) Params() url.Values {
	v := url.Values{}
	set := func(name, value string) {
		if value != "" {
			v.Set(name, value)
		}
	}
	set("query", q.Query)
	set("cuisine", q.Cuisine)
	set("diet", q.Diet)
	set("intolerances", q.Intolerances)
	set("type", q.Type)
	v.Set("number", strconv.Itoa(q.Number))
	v.Set("offset", strconv.Itoa(q.Offset))
	v.Set("addRecipeInformation", "true")
	return v
}
