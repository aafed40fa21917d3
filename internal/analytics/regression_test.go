package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearRegression(t *testing.T) {
	r := LinearRegression([]float64{1, 2, 3, 4})
	assert.Equal(t, 1.0, r.Slope)
	assert.Equal(t, 1.0, r.Intercept)
	assert.Equal(t, TrendIncreasing, r.Trend())
	assert.Equal(t, 5.0, r.At(4))
}

func TestLinearRegression_Decreasing(t *testing.T) {
	r := LinearRegression([]float64{10, 8, 6})
	assert.InDelta(t, -2, r.Slope, 1e-9)
	assert.InDelta(t, 10, r.Intercept, 1e-9)
	assert.Equal(t, TrendDecreasing, r.Trend())
}

func TestLinearRegression_FlatIsDecreasing(t *testing.T) {
	r := LinearRegression([]float64{3, 3, 3})
	assert.Equal(t, 0.0, r.Slope)
	assert.Equal(t, 3.0, r.Intercept)
	assert.Equal(t, TrendDecreasing, r.Trend())
}

func TestLinearRegression_Degenerate(t *testing.T) {
	empty := LinearRegression(nil)
	assert.Equal(t, Regression{}, empty)
	assert.Equal(t, TrendStable, empty.Trend())

	single := LinearRegression([]float64{9000})
	assert.Equal(t, 0.0, single.Slope)
	assert.Equal(t, 9000.0, single.Intercept)
	assert.Equal(t, TrendStable, single.Trend())
}
