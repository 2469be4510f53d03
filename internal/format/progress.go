package format

import (
	"fmt"
	"strings"
	"time"
)

// ProgressState tracks the progress of several concurrent methods and
// averages it into one overall fraction.
type ProgressState struct {
	progresses []float64
	numMethods int
}

// NewProgressState creates a ProgressState for numMethods methods.
func NewProgressState(numMethods int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, max(numMethods, 0)),
		numMethods: numMethods,
	}
}

// Update records the progress of the method at index. Out-of-range indices
// are ignored and values are clamped to [0, 1].
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(p.progresses) {
		return
	}
	p.progresses[index] = min(max(value, 0), 1)
}

// CalculateAverage returns the mean progress over all methods.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numMethods <= 0 {
		return 0
	}
	var total float64
	for _, v := range p.progresses {
		total += v
	}
	return total / float64(p.numMethods)
}

// maxETA caps the reported remaining time.
const maxETA = 24 * time.Hour

// rateSmoothing is the weight of the newest rate sample in the exponential
// moving average.
const rateSmoothing = 0.3

// ProgressWithETA extends ProgressState with a remaining-time estimate based
// on a smoothed progress rate.
type ProgressWithETA struct {
	*ProgressState
	numMethods   int
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates a tracker for numMethods methods.
func NewProgressWithETA(numMethods int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numMethods),
		numMethods:    numMethods,
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a progress value and returns the overall progress and
// the estimated remaining time.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	progress := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0.1 {
		rate := (progress - p.lastProgress) / elapsed
		if rate > 0 {
			if p.progressRate == 0 {
				p.progressRate = rate
			} else {
				p.progressRate = rateSmoothing*rate + (1-rateSmoothing)*p.progressRate
			}
		}
		p.lastUpdate = now
		p.lastProgress = progress
	}
	return progress, p.GetETA()
}

// GetETA returns the estimated remaining time, or 0 while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// ProgressBar renders a bar of length cells filled proportionally to progress.
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < filled {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar] pct% ETA: eta".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
