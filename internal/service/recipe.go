package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// SearchParams are the filters accepted by recipe search.
type SearchParams struct {
	Query        string
	Cuisine      string
	Diet         string
	Intolerances string
	Type         string
	Page         int
	PageSize     int
}

// RecipeService handles recipe lookups against the upstream recipe API.
type RecipeService struct {
	fetcher RecipeFetcher
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(fetcher RecipeFetcher) *RecipeService {
	return &RecipeService{fetcher: fetcher}
}

// Search runs a paged recipe search. Page is zero-based.
func (s *RecipeService) Search(ctx context.Context, p SearchParams) (json.RawMessage, error) {
	size := clampPageSize(p.PageSize)
	page := p.Page
	if page < 0 {
		page = 0
	}
	q := upstream.SearchQuery{
		Query:        strings.TrimSpace(p.Query),
		Cuisine:      p.Cuisine,
		Diet:         p.Diet,
		Intolerances: p.Intolerances,
		Type:         p.Type,
		Number:       size,
		Offset:       page * size,
	}
	return s.fetcher.Fetch(ctx, upstream.EndpointComplexSearch, q.Params())
}

// Get returns the full upstream record for one recipe.
func (s *RecipeService) Get(ctx context.Context, id int) (json.RawMessage, error) {
	if id <= 0 {
		return nil, ErrInvalidRecipeID
	}
	return s.fetcher.Fetch(ctx, upstream.InformationEndpoint(id), url.Values{"includeNutrition": {"false"}})
}

// Similar lists recipes similar to id.
func (s *RecipeService) Similar(ctx context.Context, id, number int) (json.RawMessage, error) {
	if id <= 0 {
		return nil, ErrInvalidRecipeID
	}
	return s.fetcher.Fetch(ctx, upstream.SimilarEndpoint(id), url.Values{"number": {strconv.Itoa(clampPageSize(number))}})
}

// Random returns random recipes, optionally restricted to tags such as "vegetarian".
func (s *RecipeService) Random(ctx context.Context, number int, tags []string) (json.RawMessage, error) {
	params := url.Values{"number": {strconv.Itoa(clampPageSize(number))}}
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) > 0 {
		params.Set("include-tags", strings.Join(cleaned, ","))
	}
	return s.fetcher.Fetch(ctx, upstream.EndpointRandom, params)
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return defaultPageSize
	case n > maxPageSize:
		return maxPageSize
	default:
		return n
	}
}
