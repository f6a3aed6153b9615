package cli

import (
	"fmt"
	"time"
)

// maxETA caps estimates so a stalled run does not print absurd values.
const maxETA = 24 * time.Hour

// ProgressWithETA tracks the progress of a run and estimates the time
// remaining from an exponentially smoothed progress rate.
type ProgressWithETA struct {
	progress     float64
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // progress per second
	now          func() time.Time
}

// NewProgressWithETA starts tracking at the current time.
func NewProgressWithETA() *ProgressWithETA {
	return newProgressWithClock(time.Now)
}

func newProgressWithClock(now func() time.Time) *ProgressWithETA {
	t := now()
	return &ProgressWithETA{startTime: t, lastUpdate: t, now: now}
}

// Progress returns the last recorded progress value.
func (p *ProgressWithETA) Progress() float64 {
	return p.progress
}

// Update records value (clamped to [0, 1]) and returns the new estimate.
// No estimate is made during the first 100ms or below 0.1% progress.
func (p *ProgressWithETA) Update(value float64) time.Duration {
	p.progress = min(max(value, 0), 1)

	now := p.now()
	elapsed := now.Sub(p.startTime)
	if elapsed < 100*time.Millisecond || p.progress <= 0.001 {
		p.lastUpdate = now
		p.lastProgress = p.progress
		return 0
	}

	sinceUpdate := now.Sub(p.lastUpdate).Seconds()
	if sinceUpdate > 0.05 {
		if delta := p.progress - p.lastProgress; delta > 0 {
			if p.progressRate > 0 {
				p.progressRate = 0.7*p.progressRate + 0.3*(delta/sinceUpdate)
			} else {
				p.progressRate = p.progress / elapsed.Seconds()
			}
		}
		p.lastUpdate = now
		p.lastProgress = p.progress
	}
	return p.GetETA()
}

// GetETA returns the current estimate, or 0 when none is available.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 || p.progress >= 1 {
		return 0
	}
	eta := time.Duration((1 - p.progress) / p.progressRate * float64(time.Second))
	return min(eta, maxETA)
}

// FormatETA formats an estimate as "< 1s", "42s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m, s := int(eta.Minutes()), int(eta.Seconds())%60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h, m := int(eta.Hours()), int(eta.Minutes())%60
	if m > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}
