package setup

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidate_RequiredReferences(t *testing.T) {
	ctx := context.Background()

	rec := NewInventorySetup(id.Nil(), id.New())
	err := rec.Validate(ctx)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "itemId", appErr.Details["field"])

	rec = NewInventorySetup(id.New(), id.Nil())
	err = rec.Validate(ctx)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "warehouseId", appErr.Details["field"])
}

func TestValidate_ValuationMethod(t *testing.T) {
	ctx := context.Background()

	rec := NewInventorySetup(id.New(), id.New())
	assert.Equal(t, ValuationFIFO, rec.ValuationMethod)
	assert.NoError(t, rec.Validate(ctx))

	rec.ValuationMethod = "AVERAGE"
	err := rec.Validate(ctx)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "valuationMethod", appErr.Details["field"])

	for _, m := range []ValuationMethod{ValuationFIFO, ValuationLIFO, ValuationWeightedAvg, ValuationStandard} {
		rec.ValuationMethod = m
		assert.NoError(t, rec.Validate(ctx), string(m))
	}
}

func TestValidateStockLevels(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*InventorySetup)
		problems []string
	}{
		{
			name: "all thresholds consistent",
			mutate: func(s *InventorySetup) {
				s.MinStock = dec("10")
				s.MaxStock = dec("100")
				s.ReorderPoint = dec("25")
				s.ReorderQty = dec("50")
				s.SafetyStock = dec("5")
			},
		},
		{
			name:   "nothing configured",
			mutate: func(s *InventorySetup) {},
		},
		{
			name: "negative minStock",
			mutate: func(s *InventorySetup) {
				s.MinStock = dec("-1")
			},
			problems: []string{"minStock cannot be negative"},
		},
		{
			name: "zero reorderQty",
			mutate: func(s *InventorySetup) {
				s.ReorderQty = dec("0")
			},
			problems: []string{"reorderQty must be greater than zero"},
		},
		{
			name: "min above max",
			mutate: func(s *InventorySetup) {
				s.MinStock = dec("100")
				s.MaxStock = dec("50")
			},
			problems: []string{"minStock cannot exceed maxStock"},
		},
		{
			name: "reorderPoint below min",
			mutate: func(s *InventorySetup) {
				s.MinStock = dec("20")
				s.ReorderPoint = dec("10")
			},
			problems: []string{"reorderPoint cannot be below minStock"},
		},
		{
			name: "reorderPoint above max",
			mutate: func(s *InventorySetup) {
				s.MaxStock = dec("100")
				s.ReorderPoint = dec("150")
			},
			problems: []string{"reorderPoint cannot exceed maxStock"},
		},
		{
			name: "violations reported together",
			mutate: func(s *InventorySetup) {
				s.MinStock = dec("-5")
				s.MaxStock = dec("-10")
				s.ReorderQty = dec("-1")
			},
			problems: []string{
				"minStock cannot be negative",
				"maxStock cannot be negative",
				"reorderQty must be greater than zero",
				"minStock cannot exceed maxStock",
			},
		},
		{
			name: "equal min and max allowed",
			mutate: func(s *InventorySetup) {
				s.MinStock = dec("50")
				s.MaxStock = dec("50")
				s.ReorderPoint = dec("50")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewInventorySetup(id.New(), id.New())
			tt.mutate(rec)

			err := rec.ValidateStockLevels(context.Background())
			if len(tt.problems) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.ElementsMatch(t, tt.problems, appErr.Details["errors"])
		})
	}
}
