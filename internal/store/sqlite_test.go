package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "strategies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

var straddle = []models.OptionLeg{
	{Type: models.Call, Position: models.Long, Strike: 100, Premium: 5, Quantity: 1},
	{Type: models.Put, Position: models.Long, Strike: 100, Premium: 5, Quantity: 1},
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "  Straddle  ", straddle)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Straddle", saved.Name)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, straddle, got.Legs)
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestSaveRequiresName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(context.Background(), "   ", straddle)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
}

func TestListOrder(t *testing.T) {
	s := newTestStore(t)
	s.now = fixedClock()
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a, err := s.Save(ctx, "alpha", straddle)
	require.NoError(t, err)
	b, err := s.Save(ctx, "beta", nil)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, []models.OptionLeg{}, list[0].Legs)

	// touching alpha moves it to the front
	_, err = s.Update(ctx, a.ID, "alpha v2", straddle[:1])
	require.NoError(t, err)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, "alpha v2", list[0].Name)
	assert.Len(t, list[0].Legs, 1)
	assert.True(t, list[0].UpdatedAt.After(list[0].CreatedAt))
}

func TestMissingStrategy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)

	_, err = s.Update(ctx, "missing", "x", straddle)
	assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "missing"), apperrors.ErrStrategyNotFound)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "gone soon", straddle)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, saved.ID))

	_, err = s.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)
}

func TestProperty_StrategyRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	legGen := gopter.CombineGens(
		gen.OneConstOf(models.Call, models.Put, models.Stock),
		gen.OneConstOf(models.Long, models.Short),
		gen.Float64Range(1, 5000),
		gen.Float64Range(0, 100),
		gen.IntRange(1, 100),
	).Map(func(v []interface{}) models.OptionLeg {
		return models.OptionLeg{
			Type:     v[0].(models.OptionType),
			Position: v[1].(models.PositionType),
			Strike:   v[2].(float64),
			Premium:  v[3].(float64),
			Quantity: v[4].(int),
		}
	})

	properties.Property("saved legs come back unchanged", prop.ForAll(
		func(name string, legs []models.OptionLeg) bool {
			saved, err := s.Save(ctx, "p-"+name, legs)
			if err != nil {
				t.Logf("save failed: %v", err)
				return false
			}
			got, err := s.Get(ctx, saved.ID)
			if err != nil {
				t.Logf("get failed: %v", err)
				return false
			}
			if len(got.Legs) != len(legs) {
				return false
			}
			for i := range legs {
				if got.Legs[i] != legs[i] {
					return false
				}
			}
			return got.Name == saved.Name
		},
		gen.AlphaString(),
		gen.SliceOf(legGen),
	))

	properties.TestingRun(t)
}
