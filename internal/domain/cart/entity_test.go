package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techshop/internal/domain/product"
)

func p1() product.Product {
	return product.Product{ID: "p1", Name: "Widget", Description: "a widget", Price: 10, Image: "img"}
}

func TestAdd_NewLine(t *testing.T) {
	lines, err := Add(nil, p1(), 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 20.0, Total(lines))
}

func TestAdd_SameProductMergesQuantity(t *testing.T) {
	lines, err := Add(nil, p1(), 2)
	require.NoError(t, err)
	lines, err = Add(lines, p1(), 1)
	require.NoError(t, err)

	// one line, q1+q2, never two lines for one product id
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 30.0, Total(lines))
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := Add(nil, p1(), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = Add(nil, p1(), -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAdd_DoesNotAliasInput(t *testing.T) {
	orig, err := Add(nil, p1(), 1)
	require.NoError(t, err)
	_, err = Add(orig, p1(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, orig[0].Quantity)
}

func TestSetQuantity_BelowOneIsNoOp(t *testing.T) {
	lines, err := Add(nil, p1(), 3)
	require.NoError(t, err)

	got := SetQuantity(lines, "p1", 0)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Quantity)

	got = SetQuantity(lines, "p1", -1)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Quantity)
}

func TestSetQuantity_Sets(t *testing.T) {
	lines, err := Add(nil, p1(), 3)
	require.NoError(t, err)
	got := SetQuantity(lines, "p1", 7)
	assert.Equal(t, 7, got[0].Quantity)
}

func TestSetQuantity_UnknownIDIsNoOp(t *testing.T) {
	lines, err := Add(nil, p1(), 3)
	require.NoError(t, err)
	got := SetQuantity(lines, "nope", 5)
	assert.Equal(t, lines, got)
}

func TestRemove(t *testing.T) {
	lines, err := Add(nil, p1(), 2)
	require.NoError(t, err)
	lines, err = Add(lines, product.Product{ID: "p2", Price: 5}, 1)
	require.NoError(t, err)

	got := Remove(lines, "p1")
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	got = Remove(got, "missing")
	assert.Len(t, got, 1)
}

func TestTotal_RecomputedAfterEveryMutation(t *testing.T) {
	var lines []LineItem
	var err error

	lines, err = Add(lines, p1(), 2)
	require.NoError(t, err)
	assert.Equal(t, 20.0, Total(lines))

	lines, err = Add(lines, p1(), 1)
	require.NoError(t, err)
	assert.Equal(t, 30.0, Total(lines))

	lines = SetQuantity(lines, "p1", 0)
	assert.Equal(t, 30.0, Total(lines))

	lines = Remove(lines, "p1")
	assert.Empty(t, lines)
	assert.Equal(t, 0.0, Total(lines))
}

func TestTotal_MatchesIndependentSum(t *testing.T) {
	lines := []LineItem{
		{ID: "a", Price: 19.99, Quantity: 2},
		{ID: "b", Price: 5, Quantity: 3},
		{ID: "c", Price: 2500, Quantity: 1},
	}
	want := 19.99*2 + 5*3 + 2500*1
	assert.InDelta(t, want, Total(lines), 1e-9)
}
