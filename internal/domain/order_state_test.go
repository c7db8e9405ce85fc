package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderAdvance(t *testing.T) {
	var o Order
	assert.Equal(t, StatePlaced, o.State())
	assert.True(t, o.CanEdit())
	assert.True(t, o.CanCancel())

	require.NoError(t, o.Advance(StateDispatched))
	assert.False(t, o.CanCancel())
	assert.True(t, o.CanEdit())

	require.NoError(t, o.Advance(StateDelivered))
	assert.True(t, o.Dispatched && o.OnTheWay && o.Delivered)
	assert.False(t, o.CanEdit())

	err := o.Advance(StateOnTheWay)
	assert.ErrorIs(t, err, BusinessRule(ReasonStateBackwards))
	assert.Equal(t, StateDelivered, o.State())
}

func TestParseOrderState(t *testing.T) {
	s, ok := ParseOrderState(" on_the_way ")
	assert.True(t, ok)
	assert.Equal(t, StateOnTheWay, s)
	assert.Equal(t, "ON_THE_WAY", s.String())

	_, ok = ParseOrderState("shipped")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", OrderState(9).String())
}

func TestAvailabilityOf(t *testing.T) {
	assert.Equal(t, "OUT_OF_STOCK", AvailabilityOf(0).Status)
	assert.Equal(t, "LOW_STOCK", AvailabilityOf(4).Status)
	assert.Equal(t, "IN_STOCK", AvailabilityOf(5).Status)
}

func TestErrorKinds(t *testing.T) {
	err := Validation("qty", "bad")
	de, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "qty", de.Field)
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindConflict))
	assert.Equal(t, "conflict", KindConflict.String())
}
