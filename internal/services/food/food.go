package food

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/food_item"
	"github.com/MyelinBots/vitals-go/internal/metrics"
	"github.com/MyelinBots/vitals-go/internal/services/nutrition"
)

const DefaultRecentLimit = 10

var ErrEmptyQuery = errors.New("enter a food name to search")

// FoodInfo is a lookup result together with the saved history row.
type FoodInfo struct {
	FoodItemID uint `json:"food_item_id"`
	nutrition.Product
}

type Service struct {
	store   repositories.Store
	client  nutrition.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store repositories.Store, client nutrition.Client, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		client:  client,
		metrics: m,
		logger:  logger.With("component", "food"),
	}
}

// Lookup searches the nutrition service and records the match in the user's
// history. Repeated searches add repeated rows.
func (s *Service) Lookup(ctx context.Context, userID uint, name string) (*FoodInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}

	product, err := s.client.Search(ctx, name)
	if err != nil {
		if errors.Is(err, nutrition.ErrNotFound) {
			s.metrics.ObserveLookup(metrics.LookupNotFound)
			return nil, nutrition.ErrNotFound
		}
		s.metrics.ObserveLookup(metrics.LookupFailed)
		s.logger.Warn("nutrition lookup failed", "query", name, "error", err)
		return nil, nutrition.ErrLookupFailed
	}
	s.metrics.ObserveLookup(metrics.LookupFound)

	item := &food_item.FoodItem{
		UserID:        userID,
		Name:          truncate(product.Name, 100),
		ImageURL:      product.ImageURL,
		Calories:      product.Calories,
		Protein:       product.Protein,
		Fat:           product.Fat,
		Carbohydrates: product.Carbohydrates,
	}
	if err := s.store.Foods().CreateFood(ctx, item); err != nil {
		return nil, fmt.Errorf("save food: %w", err)
	}

	info := &FoodInfo{FoodItemID: item.ID, Product: *product}
	info.Name = item.Name
	return info, nil
}

func (s *Service) RecentFoods(ctx context.Context, userID uint, limit int) ([]*food_item.FoodItem, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.store.Foods().RecentFoods(ctx, userID, limit)
}

// truncate keeps at most n runes so names fit the column.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
