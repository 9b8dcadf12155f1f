package tui

// sparklineChars maps levels 0..7 to block elements.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer is a fixed-capacity circular buffer of samples.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{data: make([]float64, capacity)}
}

// Push adds a sample, overwriting the oldest when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Len returns the number of stored samples.
func (r *RingBuffer) Len() int { return r.count }

// Last returns the most recent sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := r.head - 1
	if idx < 0 {
		idx = len(r.data) - 1
	}
	return r.data[idx]
}

// Slice returns the samples oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := r.head - r.count
	if start < 0 {
		start += len(r.data)
	}
	for i := range r.count {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// RenderSparkline draws percentages (0..100) with one block per sample.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		idx := int(clampPercent(v) / 100 * 7)
		runes[i] = sparklineChars[min(idx, 7)]
	}
	return string(runes)
}

// Normalize rescales values linearly so the minimum maps to 0 and the
// maximum to 100. A flat input maps to 50.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if hi == lo {
			out[i] = 50
			continue
		}
		out[i] = 100 * (v - lo) / (hi - lo)
	}
	return out
}

// Downsample reduces values to at most width points by keeping the
// maximum of each bucket, so peaks stay visible.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for b := range width {
		lo := b * len(values) / width
		hi := max((b+1)*len(values)/width, lo+1)
		peak := values[lo]
		for _, v := range values[lo+1 : hi] {
			peak = max(peak, v)
		}
		out[b] = peak
	}
	return out
}

// brailleDots maps (column 0-1, row 0-3) to braille dot bits.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots percentages (0..100) as a braille dot chart of
// rows lines and width cells. Each cell holds two samples; the most recent
// samples are kept when there are more than fit.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	dotRows, dotCols := rows*4, width*2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}

	start := max(0, len(values)-dotCols)
	for i := start; i < len(values); i++ {
		dotCol := i - start
		dotRow := dotRows - 1 - int(clampPercent(values[i])/100*float64(dotRows-1))
		grid[dotRow/4][dotCol/2] |= brailleDots[dotCol%2][dotRow%4]
	}

	out := make([]string, rows)
	for r := range grid {
		out[r] = string(grid[r])
	}
	return out
}

func clampPercent(v float64) float64 {
	return max(0, min(100, v))
}
