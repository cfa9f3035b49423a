package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func strPtr(s string) *string { return &s }

// TestLeadPatchSet - Testa que só os campos presentes entram no UPDATE
func TestLeadPatchSet(t *testing.T) {
	t.Run("Empty Patch", func(t *testing.T) {
		b, err := leadPatchSet(entity.LeadPatch{})
		require.NoError(t, err)
		assert.True(t, b.empty())
	})

	t.Run("Partial Patch", func(t *testing.T) {
		b, err := leadPatchSet(entity.LeadPatch{
			Status:   strPtr("contacted"),
			Priority: strPtr(""),
		})
		require.NoError(t, err)

		set, args := b.build("lead-1")
		assert.Equal(t, "SET status = $1, priority = $2 WHERE id = $3", set)
		assert.Equal(t, "contacted", *args[0].(*string))
		assert.Nil(t, args[1].(*string))
		assert.Equal(t, "lead-1", args[2])
	})

	t.Run("Unassign", func(t *testing.T) {
		b, err := leadPatchSet(entity.LeadPatch{AssignedAgent: strPtr("")})
		require.NoError(t, err)

		set, args := b.build("lead-1")
		assert.Equal(t, "SET assigned_agent = $1 WHERE id = $2", set)
		assert.Nil(t, args[0].(*string))
	})

	t.Run("JSON Columns", func(t *testing.T) {
		b, err := leadPatchSet(entity.LeadPatch{
			BudgetRange: &entity.BudgetRange{Min: "100", Max: "abc"},
		})
		require.NoError(t, err)

		_, args := b.build("lead-1")
		assert.JSONEq(t, `{"min":100,"max":"abc"}`, string(args[0].([]byte)))
	})

	t.Run("Null Clears JSON Columns", func(t *testing.T) {
		b, err := leadPatchSet(entity.LeadPatch{
			BudgetRange:              &entity.BudgetRange{Min: "1"},
			ClearBudgetRange:         true,
			ClearPropertyPreferences: true,
		})
		require.NoError(t, err)

		set, args := b.build("lead-1")
		assert.Equal(t, "SET budget_range = $1, property_preferences = $2 WHERE id = $3", set)
		assert.Nil(t, args[0])
		assert.Nil(t, args[1])
	})
}

func TestWithAgentCondition(t *testing.T) {
	set, args := withAgentCondition("SET status = $1 WHERE id = $2", []any{"new", "lead-1"}, nil)
	assert.Equal(t, "SET status = $1 WHERE id = $2", set)
	assert.Len(t, args, 2)

	set, args = withAgentCondition("SET status = $1 WHERE id = $2", []any{"new", "lead-1"}, strPtr("agent-1"))
	assert.Equal(t, "SET status = $1 WHERE id = $2 AND assigned_agent IS NOT DISTINCT FROM $3", set)
	assert.Equal(t, "agent-1", *args[2].(*string))

	// sem dono esperado vira NULL
	_, args = withAgentCondition("SET status = $1 WHERE id = $2", []any{"new", "lead-1"}, strPtr(""))
	assert.Nil(t, args[2].(*string))
}

func TestSellerPatchSet(t *testing.T) {
	value := entity.Numeric("350000")
	b := sellerPatchSet(entity.SellerPatch{
		PropertyValue: &value,
		ListingStatus: strPtr("sold"),
		AssignedAgent: strPtr("agent-1"),
	})

	set, args := b.build("seller-1")
	assert.Equal(t, "SET property_value = $1, listing_status = $2, assigned_agent = $3 WHERE id = $4", set)
	assert.Equal(t, "350000", *args[0].(*string))
	assert.Equal(t, "sold", args[1])
	assert.Equal(t, "agent-1", *args[2].(*string))
}
