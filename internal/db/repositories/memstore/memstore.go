// Package memstore is a map-backed repositories.Store. It backs
// `vitals serve --in-memory` and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/body_metric"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/consumption"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/food_item"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
)

type state struct {
	nextID       uint
	users        map[uint]*user.User
	bodyMetrics  map[uint]*body_metric.BodyMetric
	foods        map[uint]*food_item.FoodItem
	consumptions map[uint]*consumption.Consumption
}

func newState() *state {
	return &state{
		users:        map[uint]*user.User{},
		bodyMetrics:  map[uint]*body_metric.BodyMetric{},
		foods:        map[uint]*food_item.FoodItem{},
		consumptions: map[uint]*consumption.Consumption{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for k, v := range s.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range s.bodyMetrics {
		cp := *v
		c.bodyMetrics[k] = &cp
	}
	for k, v := range s.foods {
		cp := *v
		c.foods[k] = &cp
	}
	for k, v := range s.consumptions {
		cp := *v
		c.consumptions[k] = &cp
	}
	return c
}

type Store struct {
	mu  *sync.RWMutex
	st  *state
	now func() time.Time

	// set on the view handed to a transaction body; the root store's lock is
	// already held for writing
	held bool
}

var _ repositories.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.RWMutex{}, st: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the timestamp source used for created_at columns.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) id() uint {
	s.st.nextID++
	return s.st.nextID
}

func (s *Store) Users() user.UserRepository                     { return userRepo{s} }
func (s *Store) BodyMetrics() body_metric.BodyMetricRepository { return bodyMetricRepo{s} }
func (s *Store) Foods() food_item.FoodItemRepository           { return foodRepo{s} }
func (s *Store) Consumptions() consumption.ConsumptionRepository {
	return consumptionRepo{s}
}

// Transaction holds the write lock for the whole of fn, so other callers
// wait and a rollback can only discard fn's own writes. Nested calls run
// inside the outer transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.held {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &Store{mu: s.mu, st: s.st, now: s.now, held: true}
	if err := fn(tx); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) lock() func() {
	if s.held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock() func() {
	if s.held {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

/*
USERS
*/

type userRepo struct{ s *Store }

func (r userRepo) CreateUser(ctx context.Context, u *user.User) error {
	defer r.s.lock()()

	u.Email = user.NormalizeEmail(u.Email)
	for _, existing := range r.s.st.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.s.st.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetUserByID(ctx context.Context, id uint) (*user.User, error) {
	defer r.s.rlock()()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	defer r.s.rlock()()

	email = user.NormalizeEmail(email)
	for _, u := range r.s.st.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) UpdateProfile(ctx context.Context, id uint, goal *string, activityLevel string) error {
	defer r.s.lock()()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil
	}
	if goal != nil {
		g := *goal
		goal = &g
	}
	u.Goal = goal
	u.ActivityLevel = activityLevel
	u.UpdatedAt = r.s.now()
	return nil
}

func (r userRepo) DeleteUser(ctx context.Context, id uint) error {
	defer r.s.lock()()

	st := r.s.st
	for k, v := range st.consumptions {
		if v.UserID == id {
			delete(st.consumptions, k)
		}
	}
	for k, v := range st.foods {
		if v.UserID == id {
			delete(st.foods, k)
		}
	}
	for k, v := range st.bodyMetrics {
		if v.UserID == id {
			delete(st.bodyMetrics, k)
		}
	}
	delete(st.users, id)
	return nil
}

/*
BODY METRICS
*/

type bodyMetricRepo struct{ s *Store }

func (r bodyMetricRepo) CreateRecord(ctx context.Context, record *body_metric.BodyMetric) error {
	defer r.s.lock()()

	if _, ok := r.s.st.users[record.UserID]; !ok {
		return errForeignKey
	}
	record.ID = r.s.id()
	record.CreatedAt = r.s.now()
	cp := *record
	r.s.st.bodyMetrics[record.ID] = &cp
	return nil
}

func (r bodyMetricRepo) LatestForUser(ctx context.Context, userID uint) (*body_metric.BodyMetric, error) {
	list, _ := r.ListForUser(ctx, userID, 1)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r bodyMetricRepo) ListForUser(ctx context.Context, userID uint, limit int) ([]*body_metric.BodyMetric, error) {
	if limit <= 0 {
		limit = 10
	}
	defer r.s.rlock()()

	var out []*body_metric.BodyMetric
	for _, v := range r.s.st.bodyMetrics {
		if v.UserID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

/*
FOOD ITEMS
*/

type foodRepo struct{ s *Store }

func (r foodRepo) CreateFood(ctx context.Context, food *food_item.FoodItem) error {
	defer r.s.lock()()

	if _, ok := r.s.st.users[food.UserID]; !ok {
		return errForeignKey
	}
	food.ID = r.s.id()
	food.CreatedAt = r.s.now()
	cp := *food
	r.s.st.foods[food.ID] = &cp
	return nil
}

func (r foodRepo) GetFoodForUser(ctx context.Context, userID, id uint) (*food_item.FoodItem, error) {
	defer r.s.rlock()()

	f, ok := r.s.st.foods[id]
	if !ok || f.UserID != userID {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r foodRepo) RecentFoods(ctx context.Context, userID uint, limit int) ([]*food_item.FoodItem, error) {
	if limit <= 0 {
		limit = 10
	}
	defer r.s.rlock()()

	var out []*food_item.FoodItem
	for _, v := range r.s.st.foods {
		if v.UserID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateFood mutates a stored food row in place. Nothing in the application
// edits foods; tests use it to show consumption snapshots do not follow.
func (s *Store) UpdateFood(id uint, fn func(f *food_item.FoodItem)) {
	defer s.lock()()
	if f, ok := s.st.foods[id]; ok {
		fn(f)
	}
}

/*
CONSUMPTIONS
*/

type consumptionRepo struct{ s *Store }

func (r consumptionRepo) CreateConsumption(ctx context.Context, c *consumption.Consumption) error {
	defer r.s.lock()()

	if _, ok := r.s.st.users[c.UserID]; !ok {
		return errForeignKey
	}
	if c.Portion == "" {
		c.Portion = consumption.DefaultPortion
	}
	c.ID = r.s.id()
	cp := *c
	r.s.st.consumptions[c.ID] = &cp
	return nil
}

func (r consumptionRepo) DeleteConsumption(ctx context.Context, userID, id uint) (bool, error) {
	defer r.s.lock()()

	c, ok := r.s.st.consumptions[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.s.st.consumptions, id)
	return true, nil
}

func (r consumptionRepo) ListForUser(ctx context.Context, userID uint, limit int) ([]*consumption.Consumption, error) {
	out := r.filter(userID, func(*consumption.Consumption) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r consumptionRepo) ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]*consumption.Consumption, error) {
	return r.filter(userID, func(c *consumption.Consumption) bool {
		return !c.ConsumedAt.Before(from) && c.ConsumedAt.Before(to)
	}), nil
}

func (r consumptionRepo) SumBetween(ctx context.Context, userID uint, from, to time.Time) (consumption.Totals, error) {
	list, _ := r.ListBetween(ctx, userID, from, to)
	var t consumption.Totals
	for _, c := range list {
		t.Add(c)
	}
	return t, nil
}

func (r consumptionRepo) filter(userID uint, keep func(*consumption.Consumption) bool) []*consumption.Consumption {
	defer r.s.rlock()()

	var out []*consumption.Consumption
	for _, v := range r.s.st.consumptions {
		if v.UserID == userID && keep(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConsumedAt.Equal(out[j].ConsumedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].ConsumedAt.After(out[j].ConsumedAt)
	})
	return out
}
