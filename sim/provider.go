package sim

import "fmt"

// Provider is one candidate execution back-end. Immutable after startup.
type Provider struct {
	Index       int
	Name        string
	Capacity    float64 // MIPS
	CostPerUnit float64
	Latency     float64 // ms
}

// ProviderRegistry is the immutable, ordered set of providers shared
// read-only by every component of a run.
type ProviderRegistry struct {
	providers []Provider
}

// NewProviderRegistry assembles a registry from configuration.
// Indices follow configuration order. Capacity must be positive so that
// execution time stays finite.
func NewProviderRegistry(configs []ProviderConfig) (*ProviderRegistry, error) {
	providers := make([]Provider, 0, len(configs))
	for i, c := range configs {
		if c.Capacity <= 0 {
			return nil, fmt.Errorf("provider %d (%s): capacity must be positive, got %f", i, c.Name, c.Capacity)
		}
		if c.CostPerUnit < 0 {
			return nil, fmt.Errorf("provider %d (%s): cost per unit must be non-negative, got %f", i, c.Name, c.CostPerUnit)
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("provider_%d", i)
		}
		providers = append(providers, Provider{
			Index:       i,
			Name:        name,
			Capacity:    c.Capacity,
			CostPerUnit: c.CostPerUnit,
			Latency:     c.Latency,
		})
	}
	return &ProviderRegistry{providers: providers}, nil
}

// Len returns the number of providers.
func (r *ProviderRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.providers)
}

// Get returns the provider at index i and whether it exists.
func (r *ProviderRegistry) Get(i int) (Provider, bool) {
	if i < 0 || i >= r.Len() {
		return Provider{}, false
	}
	return r.providers[i], true
}

// All returns a copy of the providers in index order.
func (r *ProviderRegistry) All() []Provider {
	if r == nil {
		return nil
	}
	return append([]Provider(nil), r.providers...)
}
