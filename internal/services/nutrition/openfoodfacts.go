package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MyelinBots/vitals-go/config"
)

// OpenFoodFactsClient queries the OpenFoodFacts search endpoint.
type OpenFoodFactsClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewOpenFoodFactsClient(cfg config.NutritionConfig) *OpenFoodFactsClient {
	return &OpenFoodFactsClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type searchResponse struct {
	Products []struct {
		ProductName string               `json:"product_name"`
		ImageURL    string               `json:"image_url"`
		Nutriments  map[string]flexFloat `json:"nutriments"`
	} `json:"products"`
}

// flexFloat accepts numbers, numeric strings and null. OpenFoodFacts mixes all three.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		// objects, arrays and booleans carry no usable figure
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

func (c *OpenFoodFactsClient) Search(ctx context.Context, term string) (*Product, error) {
	q := url.Values{}
	q.Set("search_terms", term)
	q.Set("search_simple", "1")
	q.Set("json", "1")
	q.Set("page_size", "1")
	u := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrLookupFailed, err)
	}
	if len(sr.Products) == 0 {
		return nil, ErrNotFound
	}

	p := sr.Products[0]
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		name = term
	}
	return &Product{
		Name:          name,
		ImageURL:      p.ImageURL,
		Calories:      float64(p.Nutriments["energy-kcal_100g"]),
		Protein:       float64(p.Nutriments["proteins_100g"]),
		Fat:           float64(p.Nutriments["fat_100g"]),
		Carbohydrates: float64(p.Nutriments["carbohydrates_100g"]),
	}, nil
}
