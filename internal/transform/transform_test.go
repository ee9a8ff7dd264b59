package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propscope/domain/core"
)

func TestArithmetic(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{10, 20, 30}

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 33}, sum)

	diff, err := Sub(b, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 18, 27}, diff)

	prod, err := Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 40, 90}, prod)

	quot, err := Div(b, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10}, quot)
}

func TestShapeMismatch(t *testing.T) {
	_, err := Add([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = Dot([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestNaNPropagates(t *testing.T) {
	a := []float64{1, math.NaN(), 3}

	sum, err := Add(a, []float64{1, 1, 1})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(sum[1]))
	assert.Equal(t, 2.0, sum[0])

	assert.True(t, math.IsNaN(Sum(a)))
	assert.Equal(t, 4.0, NaNSum(a))

	sines := Sin(a)
	assert.True(t, math.IsNaN(sines[1]))
}

func TestScalarOps(t *testing.T) {
	xs := []float64{1, 2, 3}

	assert.Equal(t, []float64{11, 12, 13}, AddConst(xs, 10))
	assert.Equal(t, []float64{2, 4, 6}, Scale(xs, 2))
	// Inputs are never mutated.
	assert.Equal(t, []float64{1, 2, 3}, xs)
}

func TestElementWiseFunctions(t *testing.T) {
	xs := []float64{0, 1}

	assert.InDelta(t, 0, Sin(xs)[0], 1e-12)
	assert.InDelta(t, 1, Cos(xs)[0], 1e-12)
	assert.InDelta(t, math.E, Exp(xs)[1], 1e-12)
	assert.InDelta(t, 0, Log(xs)[1], 1e-12)
	assert.Equal(t, []float64{0, 1}, Sqrt(xs))
	assert.Equal(t, []float64{0, 1}, Square(xs))
	assert.InDelta(t, 2, Log10([]float64{100})[0], 1e-12)
}

func TestCumSumAndDot(t *testing.T) {
	assert.Equal(t, []float64{1, 3, 6}, CumSum([]float64{1, 2, 3}))
	assert.Nil(t, CumSum(nil))

	dot, err := Dot([]float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 11.0, dot)
}
