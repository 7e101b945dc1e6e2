package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	ve := &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	assert.True(t, IsValidation(ve))
	assert.False(t, IsConsistency(ve))
	assert.Contains(t, ve.Error(), "quantity")

	ce := &ConsistencyError{Entity: "product", EntityID: 7, Detail: "recomputed cost_price -1 is negative"}
	assert.True(t, IsConsistency(ce))
	assert.False(t, IsValidation(ce))
	assert.Contains(t, ce.Error(), "id=7")

	// Classification survives wrapping
	wrapped := fmt.Errorf("failed to replace BOM: %w", ve)
	assert.True(t, IsValidation(wrapped))

	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", ErrNotFound), ErrNotFound))
}
