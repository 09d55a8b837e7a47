package uv

import "time"

// Monitor holds the UV state and decides when a crossing of the danger
// threshold must be announced. It is not safe for concurrent use; Engine
// serializes access.
type Monitor struct {
	threshold float64
	skinType  int
	state     State
	now       func() time.Time
}

// NewMonitor creates a monitor that starts in the not-dangerous state.
func NewMonitor(threshold float64, skinType int) *Monitor {
	return &Monitor{threshold: threshold, skinType: skinType, now: time.Now}
}

// Threshold returns the configured danger threshold.
func (m *Monitor) Threshold() float64 { return m.threshold }

// SkinType returns the configured skin type.
func (m *Monitor) SkinType() int { return m.skinType }

// State returns a copy of the current state.
func (m *Monitor) State() State { return m.state }

// Dangerous reports whether value is at or above the threshold.
func (m *Monitor) Dangerous(value float64) bool {
	return value >= m.threshold
}

// Evaluate applies reading to the state. It returns an intent only when the
// danger flag flips. The state is updated whether or not an intent is returned.
func (m *Monitor) Evaluate(reading Reading) (Intent, bool) {
	was := m.state.IsDangerous
	dangerous := m.Dangerous(reading.Value)

	m.state = State{
		CurrentValue: reading.Value,
		IsDangerous:  dangerous,
		LastUpdated:  m.now(),
		Source:       reading.Source,
		Provider:     reading.Provider,
	}

	switch {
	case dangerous && !was:
		return Intent{
			Kind:        IntentDanger,
			Reading:     reading,
			SafeMinutes: SafeExposureMinutes(reading.Value, m.skinType),
		}, true
	case !dangerous && was:
		return Intent{Kind: IntentSafe, Reading: reading}, true
	default:
		return Intent{}, false
	}
}
