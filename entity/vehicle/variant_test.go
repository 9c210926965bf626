package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanesim/lanesim/utils/randengine"
)

func TestVariantStringRoundTrip(t *testing.T) {
	for _, v := range Variants {
		got, err := VariantFromString(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	_, err := VariantFromString("hovercraft")
	assert.Error(t, err)
}

func TestProfileDrawsWithinRanges(t *testing.T) {
	e := randengine.New(42)
	for range 50 {
		p, esd, desiredV, epsilon := newProfile(StandardFast, e)
		assert.Equal(t, 1.4, p.K)
		assert.Equal(t, 3.0, p.K1)
		assert.Equal(t, 1.8, p.K2)
		assert.Equal(t, 4.0, p.Length)
		assert.Equal(t, 0.9, p.SafeTime)
		assert.GreaterOrEqual(t, p.L, 1.0)
		assert.Less(t, p.L, 20.0)
		assert.GreaterOrEqual(t, p.AMax, 2.5)
		assert.Less(t, p.AMax, 4.0)
		assert.GreaterOrEqual(t, esd, 2.5)
		assert.Less(t, esd, 4.0)
		assert.GreaterOrEqual(t, desiredV, 30.0)
		assert.Less(t, desiredV, 35.0)
		assert.GreaterOrEqual(t, epsilon, 2.0)
		assert.Less(t, epsilon, 10.0)
	}
	for range 50 {
		p, esd, desiredV, _ := newProfile(StandardSlow, e)
		assert.Equal(t, 2.0, p.K)
		assert.Equal(t, 1.0, p.L) // 固定值
		assert.Equal(t, 5.0, p.Braking)
		assert.Equal(t, 15.0, p.Length)
		assert.Equal(t, 2.2, p.SafeTime)
		assert.GreaterOrEqual(t, p.AMax, 1.0)
		assert.Less(t, p.AMax, 2.0)
		assert.GreaterOrEqual(t, esd, 8.0)
		assert.Less(t, esd, 9.0)
		assert.GreaterOrEqual(t, desiredV, 18.0)
		assert.Less(t, desiredV, 22.0)
	}
	for range 50 {
		p, esd, _, _ := newProfile(Automated, e)
		assert.Equal(t, 1.1, p.K3)
		assert.Equal(t, 10.0, p.L)
		assert.Equal(t, 50.0, p.L2)
		assert.Equal(t, 4.0, esd) // 固定值
	}
}

func TestPolicySelection(t *testing.T) {
	assert.IsType(t, standardZones{}, policyFor(StandardFast))
	assert.IsType(t, standardZones{}, policyFor(StandardSlow))
	assert.IsType(t, automatedZones{}, policyFor(Automated))
}
