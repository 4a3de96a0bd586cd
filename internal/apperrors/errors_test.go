package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(NotFound("store not found")))
	require.Equal(t, KindInvalidInput, KindOf(InvalidInput("name required")))
	require.Equal(t, KindInsufficientStock, KindOf(InsufficientStock("available %d", 3)))
	require.Equal(t, KindDependencyFailure, KindOf(DependencyFailure(errors.New("ping"), "database error")))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while selling: %w", InsufficientStock("available 3, requested 5"))
	require.True(t, IsInsufficientStock(err))
	require.False(t, IsNotFound(err))
}

func TestMessages(t *testing.T) {
	err := DependencyFailure(errors.New("connection refused"), "error loading product")
	require.Equal(t, "error loading product: connection refused", err.Error())
	require.Equal(t, "connection refused", errors.Unwrap(err).Error())

	require.Equal(t, "insufficient stock: available 3, requested 5",
		InsufficientStock("insufficient stock: available %d, requested %d", 3, 5).Error())
}
