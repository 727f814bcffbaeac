package sim

// TaskRequest is one task arrival. Produced once per arrival by the arrival
// engine and consumed exactly once by the Dispatcher.
type TaskRequest struct {
	ID          int     // sequential, starting at 1
	ArrivalTime float64 // simulated clock at arrival
	CPUDemand   float64 // work in MIPS-units
	MemDemand   float64 // MB
}

// StateVectorLen is the fixed length of a StateVector.
const StateVectorLen = 5

// StateVector is the normalized representation of a TaskRequest handed to
// remote oracles:
//
//	[cpu/maxCpu, mem/maxMem, arrival/timeScale, slaDeadline/deadlineScale, reserved]
//
// The reserved slot is always 0.0 at request time.
type StateVector [StateVectorLen]float64

// Slice returns the vector as a fresh slice.
func (s StateVector) Slice() []float64 {
	out := make([]float64, StateVectorLen)
	copy(out, s[:])
	return out
}

// Decayed returns a copy with both demand slots multiplied by factor.
// Used as the next-state estimate fed back to learning oracles.
func (s StateVector) Decayed(factor float64) StateVector {
	out := s
	out[0] *= factor
	out[1] *= factor
	return out
}
