package nutrition

import (
	"context"
	"errors"
)

//go:generate mockgen -source=nutrition.go -destination=mocks/mock_nutrition.go -package=mocks

var (
	ErrNotFound     = errors.New("no nutrition information found for that food")
	ErrLookupFailed = errors.New("could not reach the nutrition service, try again later")
)

// Product is the best match for a search, nutrients per 100 g.
type Product struct {
	Name          string  `json:"name"`
	ImageURL      string  `json:"image_url,omitempty"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
}

type Client interface {
	Search(ctx context.Context, term string) (*Product, error)
}
