package sim

import (
	"hash/fnv"
	"math/rand"
	"sync"
)

// SimulationKey is the seed a run is reproduced from. Re-running a local
// policy with the same key and config writes the same outcome log.
type SimulationKey int64

func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Random stream names.
const (
	// SubsystemWorkload drives sensor intervals and task demands. It is
	// seeded with the key itself so a seed maps to one arrival sequence.
	SubsystemWorkload = "workload"

	// SubsystemPolicy feeds pseudo-load provider picks.
	SubsystemPolicy = "policy"
)

// PartitionedRNG hands out one seeded stream per consumer so that the
// arrival sequence stays fixed when the policy under test changes.
// Streams other than SubsystemWorkload are seeded with key ^ fnv1a64(name).
//
// ForSubsystem may be called concurrently; the streams it returns may not.
type PartitionedRNG struct {
	mu         sync.Mutex
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Later calls with the same name share its position.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	seed := int64(p.key)
	if name != SubsystemWorkload {
		seed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
