package uv

import (
	"time"
)

// Source identifies where a UV reading came from.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceEstimate  Source = "estimate"
)

// Coordinates is the fixed point we monitor.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Reading is a single immutable UV observation.
// A zero ObservedAt means the provider did not report a timestamp.
type Reading struct {
	Value      float64   `json:"value"`
	ObservedAt time.Time `json:"observedAt"`
	Source     Source    `json:"source"`
	Provider   string    `json:"provider"`
}

// State is the monitor's view after the last evaluation.
type State struct {
	CurrentValue float64   `json:"currentValue"`
	IsDangerous  bool      `json:"isDangerous"`
	LastUpdated  time.Time `json:"lastUpdated"`
	Source       Source    `json:"source,omitempty"`
	Provider     string    `json:"provider,omitempty"`
}

// SunscreenRecord tracks the single active sunscreen application.
type SunscreenRecord struct {
	AppliedAt         time.Time `json:"applied_at"`
	SPF               int       `json:"spf"`
	UVAtApplication   float64   `json:"uv_at_application"`
	ExpiresAt         time.Time `json:"expires_at"`
	ProtectionMinutes int       `json:"protection_minutes"`
	ReminderSent      bool      `json:"reminder_sent"`
}

// IntentKind enumerates the notifications the engine can emit.
type IntentKind string

const (
	IntentDanger   IntentKind = "danger"
	IntentSafe     IntentKind = "safe"
	IntentReminder IntentKind = "reminder"
)

// Intent asks the engine to deliver a notification.
type Intent struct {
	Kind        IntentKind
	Reading     Reading
	SafeMinutes int
}

// Level is a human description of a UV index band.
type Level struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// Status is a point-in-time snapshot served to status queries.
type Status struct {
	State               State            `json:"state"`
	Level               Level            `json:"level"`
	Threshold           float64          `json:"threshold"`
	SkinType            int              `json:"skinType"`
	SafeMinutes         int              `json:"safeMinutes"`
	Burn                BurnTimes        `json:"burn"`
	Sunscreen           *SunscreenRecord `json:"sunscreen,omitempty"`
	ProtectionRemaining int              `json:"protectionRemainingMinutes"`
	GeneratedAt         time.Time        `json:"generatedAt"`
}
