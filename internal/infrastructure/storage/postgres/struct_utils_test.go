package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inventa/internal/core/entity"
	"inventa/internal/core/id"
)

type MockCatalog struct {
	entity.Catalog
	SKU    string `db:"sku" json:"sku"`
	Hidden string `db:"-"`
	NoTag  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{
		"id", "tenant_id", "stage_id", "deletion_mark", "version",
		"attributes", "created_at", "updated_at",
		"code", "name", "is_active", "sku",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Hidden")
	assert.NotContains(t, cols, "NoTag")
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	cols := ExtractDBColumns[*MockCatalog]()
	assert.Contains(t, cols, "sku")
	assert.Contains(t, cols, "tenant_id")
}

func TestStructToMap(t *testing.T) {
	cat := MockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				TenantID:     "1000",
				StageID:      "DEV",
				DeletionMark: true,
				Version:      5,
			},
			Code:     "TEST",
			Name:     "Test Name",
			IsActive: true,
		},
		SKU:    "SKU-1",
		Hidden: "secret",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, "1000", m["tenant_id"])
	assert.Equal(t, "DEV", m["stage_id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Equal(t, true, m["is_active"])
	assert.Equal(t, "SKU-1", m["sku"])

	_, hasHidden := m["-"]
	assert.False(t, hasHidden)
}

func TestStructToMap_PointerAndNonStruct(t *testing.T) {
	cat := &MockCatalog{SKU: "VIA-PTR"}
	m := StructToMap(cat)
	assert.Equal(t, "VIA-PTR", m["sku"])

	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("string"))
}
