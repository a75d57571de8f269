package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHorizonNames(t *testing.T) {
	assert.Equal(t, "3d", H3.String())
	assert.Equal(t, "return_5d", H5.Column())
	assert.False(t, Horizon(2).Valid())
}

func TestCorrelationJSONWritesNaNAsNull(t *testing.T) {
	c := CorrelationResult{
		Label:        "x",
		Observations: 4,
		Coefficients: []Coefficient{{Horizon: H1, Value: 0.5}, {Horizon: H5, Value: math.NaN()}},
	}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"x","observations":4,"coefficients":[{"horizon":"1d","value":0.5},{"horizon":"5d","value":null}]}`, string(b))
}

func TestPricePointReturnMissing(t *testing.T) {
	p := PricePoint{Returns: map[Horizon]float64{H1: 0.1}}
	assert.Equal(t, 0.1, p.Return(H1))
	assert.True(t, math.IsNaN(p.Return(H3)))
}

func TestRunResultEmpty(t *testing.T) {
	var r *RunResult
	assert.True(t, r.Empty())
	assert.True(t, (&RunResult{}).Empty())
}
