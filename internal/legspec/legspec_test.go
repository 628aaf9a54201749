package legspec

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want models.OptionLeg
	}{
		{"long call 100 5", models.OptionLeg{Type: models.Call, Position: models.Long, Strike: 100, Premium: 5, Quantity: 1}},
		{"SELL pe 95 @2.5 x3", models.OptionLeg{Type: models.Put, Position: models.Short, Strike: 95, Premium: 2.5, Quantity: 3}},
		{"buy stock 100", models.OptionLeg{Type: models.Stock, Position: models.Long, Strike: 100, Quantity: 1}},
		{"long s 50 x2", models.OptionLeg{Type: models.Stock, Position: models.Long, Strike: 50, Quantity: 2}},
		{"short,c,110,3,4", models.OptionLeg{Type: models.Call, Position: models.Short, Strike: 110, Premium: 3, Quantity: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRoundTripsString(t *testing.T) {
	leg := models.OptionLeg{Type: models.Put, Position: models.Short, Strike: 97.5, Premium: 1.25, Quantity: 2}
	got, err := Parse(leg.String())
	require.NoError(t, err)
	assert.Equal(t, leg, got)
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"long call",
		"hold call 100",
		"long future 100",
		"long call abc",
		"long call 100 five",
		"long call 100 5 xtwo",
		"long call 100 5 x1 extra",
	} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, apperrors.ErrInputValidation, in)
	}
}

func TestParseAll(t *testing.T) {
	legs, err := ParseAll([]string{"long call 100 5", "long put 100 5"})
	require.NoError(t, err)
	assert.Len(t, legs, 2)

	_, err = ParseAll([]string{"long call 100 5", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leg 2")
}

func TestValidate(t *testing.T) {
	ok := models.OptionLeg{Type: models.Call, Position: models.Long, Strike: 100, Premium: 5, Quantity: 1}
	require.NoError(t, Validate([]models.OptionLeg{ok}))

	assert.ErrorIs(t, Validate(nil), apperrors.ErrInputValidation)

	cases := map[string]func(l *models.OptionLeg){
		"type":       func(l *models.OptionLeg) { l.Type = "future" },
		"position":   func(l *models.OptionLeg) { l.Position = "flat" },
		"strike":     func(l *models.OptionLeg) { l.Strike = -1 },
		"premium":    func(l *models.OptionLeg) { l.Premium = -0.5 },
		"quantity":   func(l *models.OptionLeg) { l.Quantity = 0 },
		"stock prem": func(l *models.OptionLeg) { l.Type = models.Stock },
		"nan strike": func(l *models.OptionLeg) { l.Strike = math.NaN() },
		"inf strike": func(l *models.OptionLeg) { l.Strike = math.Inf(1) },
		"nan prem":   func(l *models.OptionLeg) { l.Premium = math.NaN() },
		"inf prem":   func(l *models.OptionLeg) { l.Premium = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			leg := ok
			mutate(&leg)
			err := Validate([]models.OptionLeg{ok, leg})

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Field, "legs[1].")
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml document", func(t *testing.T) {
		path := filepath.Join(dir, "condor.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
name: My Condor
legs:
  - {type: put, position: long, strike: 80, premium: 1}
  - {type: put, position: short, strike: 90, premium: 2.5, quantity: 2}
`), 0644))

		doc, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "My Condor", doc.Name)
		require.Len(t, doc.Legs, 2)
		assert.Equal(t, 1, doc.Legs[0].Quantity)
		assert.Equal(t, 2, doc.Legs[1].Quantity)
		assert.Equal(t, models.Short, doc.Legs[1].Position)
	})

	t.Run("json list", func(t *testing.T) {
		path := filepath.Join(dir, "straddle.json")
		require.NoError(t, os.WriteFile(path, []byte(`[
			{"type":"call","position":"long","strike":100,"premium":5,"quantity":1},
			{"type":"put","position":"long","strike":100,"premium":5,"quantity":1}
		]`), 0644))

		doc, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "straddle", doc.Name)
		assert.Len(t, doc.Legs, 2)
	})

	t.Run("write then load", func(t *testing.T) {
		path := filepath.Join(dir, "out.yml")
		in := Document{Name: "cc", Legs: []models.OptionLeg{
			{Type: models.Stock, Position: models.Long, Strike: 100, Quantity: 1},
			{Type: models.Call, Position: models.Short, Strike: 110, Premium: 3, Quantity: 1},
		}}
		require.NoError(t, WriteFile(path, in))

		out, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("scalar document", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("just text\n"), 0644))
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidateRejectsNonFiniteInput(t *testing.T) {
	for spec, field := range map[string]string{
		"long call nan 5":    "legs[0].strike",
		"long put inf 1":     "legs[0].strike",
		"short put 95 nan":   "legs[0].premium",
		"short call 95 +inf": "legs[0].premium",
	} {
		t.Run(spec, func(t *testing.T) {
			legs, err := ParseAll([]string{spec})
			require.NoError(t, err)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, Validate(legs), &ve)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestLoadFileNonFiniteFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("legs:\n  - {type: call, position: long, strike: .nan, premium: 5}\n"), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(doc.Legs), apperrors.ErrInputValidation)
}
