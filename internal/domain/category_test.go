package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
)

func TestNormalizeCategories_PrependsAllProducts(t *testing.T) {
	out := NormalizeCategories(nil)

	require.Len(t, out, 1)
	assert.Equal(t, AllProductsID, out[0].ID)
	assert.Equal(t, "All Products", out[0].Name)
	assert.Equal(t, "/", out[0].Href)
}

func TestNormalizeCategories_MapsBackendCategories(t *testing.T) {
	parent := "cat_parent"
	raw := []medusa.ProductCategory{
		{ID: "cat_01", Name: "Shirts", Handle: "shirts"},
		{ID: "cat_02", Name: "Mugs & Cups", Handle: "", ParentCategoryID: &parent},
	}

	out := NormalizeCategories(raw)

	require.Len(t, out, 3)

	shirts := out[1]
	assert.Equal(t, "cat_01", shirts.ID)
	assert.Equal(t, "shirts", shirts.Handle)
	assert.Equal(t, "/shirts", shirts.Href)
	assert.Equal(t, "Shirts", shirts.Label)
	assert.Equal(t, "cat_01", shirts.Value)
	assert.Nil(t, shirts.ParentCategoryID)

	// A missing handle is generated from the name.
	mugs := out[2]
	assert.Equal(t, "mugs-cups", mugs.Handle)
	assert.Equal(t, "/mugs-cups", mugs.Href)
	require.NotNil(t, mugs.ParentCategoryID)
	assert.Equal(t, parent, *mugs.ParentCategoryID)
}

func TestNormalizeCategories_AllProductsAlwaysFirst(t *testing.T) {
	raw := []medusa.ProductCategory{{ID: "cat_01", Name: "Shirts", Handle: "shirts"}}

	out := NormalizeCategories(raw)

	assert.Equal(t, AllProductsID, out[0].ID)
}
