package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderRegistry_IndicesFollowConfigOrder(t *testing.T) {
	reg, err := NewProviderRegistry(DefaultProviders())
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	for i, want := range []string{"AWS_Cloud", "Azure_Cloud", "GCP_Cloud"} {
		p, ok := reg.Get(i)
		require.True(t, ok)
		assert.Equal(t, i, p.Index)
		assert.Equal(t, want, p.Name)
	}
}

func TestNewProviderRegistry_DefaultsMissingName(t *testing.T) {
	reg, err := NewProviderRegistry([]ProviderConfig{{Capacity: 1}, {Name: "b", Capacity: 1}})
	require.NoError(t, err)
	p, _ := reg.Get(0)
	assert.Equal(t, "provider_0", p.Name)
}

func TestNewProviderRegistry_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewProviderRegistry([]ProviderConfig{{Name: "a", Capacity: 0}})
	assert.Error(t, err)
	_, err = NewProviderRegistry([]ProviderConfig{{Name: "a", Capacity: -5}})
	assert.Error(t, err)
}

func TestNewProviderRegistry_RejectsNegativeCost(t *testing.T) {
	_, err := NewProviderRegistry([]ProviderConfig{{Name: "a", Capacity: 1, CostPerUnit: -1}})
	assert.Error(t, err)
}

func TestProviderRegistry_GetOutOfRange(t *testing.T) {
	reg, err := NewProviderRegistry(DefaultProviders())
	require.NoError(t, err)
	_, ok := reg.Get(-1)
	assert.False(t, ok)
	_, ok = reg.Get(3)
	assert.False(t, ok)
}

func TestProviderRegistry_NilAndEmpty(t *testing.T) {
	var nilReg *ProviderRegistry
	assert.Equal(t, 0, nilReg.Len())
	assert.Nil(t, nilReg.All())
	_, ok := nilReg.Get(0)
	assert.False(t, ok)

	empty, err := NewProviderRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestProviderRegistry_AllReturnsCopy(t *testing.T) {
	reg, err := NewProviderRegistry(DefaultProviders())
	require.NoError(t, err)

	all := reg.All()
	all[0].Capacity = 1

	p, _ := reg.Get(0)
	assert.Equal(t, 10000.0, p.Capacity, "mutating All() must not affect the registry")
}
