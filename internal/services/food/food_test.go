package food

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MyelinBots/vitals-go/internal/db/repositories/memstore"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
	"github.com/MyelinBots/vitals-go/internal/logging"
	"github.com/MyelinBots/vitals-go/internal/metrics"
	"github.com/MyelinBots/vitals-go/internal/services/nutrition"
	"github.com/MyelinBots/vitals-go/internal/services/nutrition/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc    *Service
	store  *memstore.Store
	client *mocks.MockClient
	userID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	store := memstore.New()

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	u := &user.User{Name: "Ana", Email: "ana@example.com", Sex: "Female", ActivityLevel: "light"}
	require.NoError(t, store.Users().CreateUser(context.Background(), u))

	return &fixture{
		svc:    NewService(store, client, m, logging.Discard()),
		store:  store,
		client: client,
		userID: u.ID,
	}
}

func TestLookup_PersistsMatch(t *testing.T) {
	f := newFixture(t)
	f.client.EXPECT().
		Search(gomock.Any(), "banana").
		Return(&nutrition.Product{Name: "Banana", ImageURL: "img", Calories: 89, Protein: 1.1, Fat: 0.3, Carbohydrates: 23}, nil)

	info, err := f.svc.Lookup(context.Background(), f.userID, "  banana ")
	require.NoError(t, err)
	assert.NotZero(t, info.FoodItemID)
	assert.Equal(t, "Banana", info.Name)
	assert.Equal(t, 89.0, info.Calories)

	saved, err := f.store.Foods().GetFoodForUser(context.Background(), f.userID, info.FoodItemID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Banana", saved.Name)
	assert.Equal(t, 23.0, saved.Carbohydrates)
}

func TestLookup_RepeatedSearchesAreNotDeduplicated(t *testing.T) {
	f := newFixture(t)
	f.client.EXPECT().
		Search(gomock.Any(), "rice").
		Return(&nutrition.Product{Name: "Rice", Calories: 130}, nil).
		Times(2)

	first, err := f.svc.Lookup(context.Background(), f.userID, "rice")
	require.NoError(t, err)
	second, err := f.svc.Lookup(context.Background(), f.userID, "rice")
	require.NoError(t, err)
	assert.NotEqual(t, first.FoodItemID, second.FoodItemID)

	recent, err := f.svc.RecentFoods(context.Background(), f.userID, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, second.FoodItemID, recent[0].ID)
}

func TestLookup_FailuresWriteNothing(t *testing.T) {
	tests := []struct {
		name      string
		clientErr error
		wantErr   error
	}{
		{"not found", nutrition.ErrNotFound, nutrition.ErrNotFound},
		{"lookup failed", nutrition.ErrLookupFailed, nutrition.ErrLookupFailed},
		{"unexpected client error", errors.New("dial tcp: refused"), nutrition.ErrLookupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.client.EXPECT().Search(gomock.Any(), "kale").Return(nil, tt.clientErr)

			info, err := f.svc.Lookup(context.Background(), f.userID, "kale")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, info)

			recent, err := f.svc.RecentFoods(context.Background(), f.userID, 10)
			require.NoError(t, err)
			assert.Empty(t, recent)
		})
	}
}

func TestLookup_EmptyQuerySkipsClient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Lookup(context.Background(), f.userID, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestLookup_LongNamesAreTruncated(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("é", 150)
	f.client.EXPECT().Search(gomock.Any(), "x").Return(&nutrition.Product{Name: long}, nil)

	info, err := f.svc.Lookup(context.Background(), f.userID, "x")
	require.NoError(t, err)
	assert.Equal(t, 100, len([]rune(info.Name)))
}

func TestRecentFoods_ScopedToUser(t *testing.T) {
	f := newFixture(t)
	other := &user.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), other))

	f.client.EXPECT().Search(gomock.Any(), gomock.Any()).Return(&nutrition.Product{Name: "Egg"}, nil).Times(2)
	_, err := f.svc.Lookup(context.Background(), f.userID, "egg")
	require.NoError(t, err)
	_, err = f.svc.Lookup(context.Background(), other.ID, "egg")
	require.NoError(t, err)

	mine, err := f.svc.RecentFoods(context.Background(), f.userID, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.userID, mine[0].UserID)
}
