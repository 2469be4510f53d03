package tui

// blockLevels are the eight block elements used by sparklines, lowest first.
var blockLevels = []rune("▁▂▃▄▅▆▇█")

// RingBuffer keeps the most recent samples of a series up to a fixed
// capacity. The zero value is not usable; call NewRingBuffer.
type RingBuffer struct {
	buf   []float64
	next  int // slot written by the next Push
	count int
}

// NewRingBuffer creates a ring buffer holding at most capacity samples.
// A non-positive capacity is raised to 1.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{buf: make([]float64, max(capacity, 1))}
}

// Push appends v, evicting the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
	r.count = min(r.count+1, len(r.buf))
}

// Len returns the number of samples held.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the capacity.
func (r *RingBuffer) Cap() int { return len(r.buf) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.buf[(r.next-1+len(r.buf))%len(r.buf)]
}

// Slice returns a copy of the samples, oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, 0, r.count)
	first := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(first+i)%len(r.buf)])
	}
	return out
}

// Resize changes the capacity and keeps the newest samples that still fit.
func (r *RingBuffer) Resize(capacity int) {
	capacity = max(capacity, 1)
	if capacity == len(r.buf) {
		return
	}
	kept := r.Slice()
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}
	r.buf = make([]float64, capacity)
	copy(r.buf, kept)
	r.count = len(kept)
	r.next = r.count % capacity
}

// Reset drops every sample and keeps the capacity.
func (r *RingBuffer) Reset() {
	r.next, r.count = 0, 0
}

// clampPercent bounds v to [0, 100].
func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}

// RenderSparkline draws percentages (0..100) as one block element per value.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	top := len(blockLevels) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		out[i] = blockLevels[min(int(clampPercent(v)/100*float64(top)), top)]
	}
	return string(out)
}

// brailleBlank is the empty braille pattern. A braille cell is a 2x4 dot
// grid; brailleBits[col][row] is the bit lighting that dot.
const brailleBlank = 0x2800

var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots percentages (0..100) as a dot chart of rows lines
// and width cells. Each value takes one dot column, so a cell holds two
// values; the newest value sits at the right edge.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	dotCols, dotRows := width*2, rows*4
	if len(values) > dotCols {
		values = values[len(values)-dotCols:]
	}
	offset := dotCols - len(values)

	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = make([]rune, width)
		for c := range cells[r] {
			cells[r][c] = brailleBlank
		}
	}

	for i, v := range values {
		x := offset + i
		y := dotRows - 1 - int(clampPercent(v)/100*float64(dotRows-1))
		cells[y/4][x/2] |= brailleBits[x%2][y%4]
	}

	lines := make([]string, rows)
	for r, row := range cells {
		lines[r] = string(row)
	}
	return lines
}
