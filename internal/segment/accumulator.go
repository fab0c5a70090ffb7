package segment

// DefaultFlushThreshold is the accumulated byte count at which a streaming
// session hands its buffer to the processing pass. At 16 kHz mono 16-bit
// this is one second of audio.
const DefaultFlushThreshold = 32000

// Accumulator batches inbound network chunks until a size threshold is
// reached. It is not frame-aware; the segmenter consumes the buffer on
// flush.
//
// The threshold is size-based, not time-based, so flush cadence depends on
// network throughput, and a flush can bisect an in-progress utterance. The
// hysteresis state in [Segmenter] survives across flushes, so a bisected
// utterance is still cut correctly once its trailing silence arrives; the
// threshold only trades latency against per-pass overhead.
//
// An Accumulator is exclusively owned by one session.
type Accumulator struct {
	threshold int
	buf       []byte
}

// NewAccumulator creates an Accumulator flushing at the given threshold.
// A non-positive threshold uses [DefaultFlushThreshold].
func NewAccumulator(threshold int) *Accumulator {
	if threshold <= 0 {
		threshold = DefaultFlushThreshold
	}
	return &Accumulator{threshold: threshold}
}

// Push appends chunk and returns the accumulated size.
func (a *Accumulator) Push(chunk []byte) int {
	a.buf = append(a.buf, chunk...)
	return len(a.buf)
}

// ShouldFlush reports whether the accumulated size has reached the
// threshold.
func (a *Accumulator) ShouldFlush() bool { return len(a.buf) >= a.threshold }

// TakeAndReset returns the buffered bytes and empties the accumulator.
func (a *Accumulator) TakeAndReset() []byte {
	buf := a.buf
	a.buf = nil
	return buf
}

// Len reports the current accumulated size.
func (a *Accumulator) Len() int { return len(a.buf) }
