package testutil

// StepClock is the logical clock that stamps the steps of a scripted run.
//
// Steps are ordered by seq alone, never by wall time, so two executions of
// the same script produce identical logs. Each run gets its own clock; the
// first call to Next returns 1.
//
// StepClock is not safe for concurrent use. Runs are single-threaded.
type StepClock struct {
	seq int64
}

// NewStepClock creates a clock starting at 0.
func NewStepClock() *StepClock {
	return &StepClock{}
}

// NewStepClockAt creates a clock whose next value is start+1. Used to
// continue stamping after the last step of a stored run.
func NewStepClockAt(start int64) *StepClock {
	return &StepClock{seq: start}
}

// Next increments and returns the sequence number.
func (c *StepClock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the last value handed out, or the start value.
func (c *StepClock) Current() int64 {
	return c.seq
}

// Reset rewinds the clock to 0.
func (c *StepClock) Reset() {
	c.seq = 0
}
