package service

import (
	"testing"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPatternTableRegister(t *testing.T) {
	table := NewPatternTable()

	assert.False(t, table.Register("Vegan", ConflictPattern{Conflicts: []string{"tofu"}}), "built-in names are fixed")
	assert.False(t, table.Register("  ", ConflictPattern{}))
	assert.True(t, table.Register("Shellfish-Free", ConflictPattern{Conflicts: []string{"shrimp", "crab meat"}}))

	shellfish := &models.DietaryRestriction{Name: "shellfish-free"}
	assert.True(t, table.Known("SHELLFISH-FREE"))
	assert.True(t, table.HasConflict(types.InventoryItem{"item_name": "Frozen Shrimp"}, shellfish))
	assert.True(t, table.HasConflict(types.InventoryItem{"item_name": "Imitation Crab Meat Sticks"}, shellfish))
	assert.False(t, table.HasConflict(types.InventoryItem{"item_name": "Shrimpton Crackers"}, shellfish))

	vegan := &models.DietaryRestriction{Name: "Vegan"}
	assert.False(t, table.HasConflict(types.InventoryItem{"item_name": "Firm Tofu"}, vegan))
}

func TestPatternTableCategoryMatch(t *testing.T) {
	table := NewPatternTable()
	vegetarian := &models.DietaryRestriction{Name: "Vegetarian"}

	assert.True(t, table.HasConflict(types.InventoryItem{"item_name": "Frozen Nuggets", "category": "Chicken"}, vegetarian))
	assert.False(t, table.HasConflict(types.InventoryItem{"item_name": "Frozen Peas", "category": "vegetables"}, vegetarian))
	assert.False(t, table.HasConflict(types.InventoryItem{}, vegetarian))
	assert.False(t, table.HasConflict(types.InventoryItem{"item_name": "Pork Loin"}, nil))
}

func TestSafeMatchDoesNotVeto(t *testing.T) {
	table := NewPatternTable()
	dairy := &models.DietaryRestriction{Name: "Dairy-Free"}
	item := types.InventoryItem{"item_name": "Non-Dairy Almond Milk"}

	assert.True(t, table.SafeMatch(item, dairy))
	assert.True(t, table.HasConflict(item, dairy))
	assert.False(t, table.SafeMatch(item, nil))
	assert.False(t, table.SafeMatch(item, &models.DietaryRestriction{Name: "Paleo"}))
}
