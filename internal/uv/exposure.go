package uv

import "math"

const (
	// PhotosensitivityFactor halves burn and protection times to account for
	// photosensitising medication.
	PhotosensitivityFactor = 0.5

	// DefaultSkinType is used when a configured skin type is out of range.
	DefaultSkinType = 2

	// NoBurnRisk is reported as burn time when there is no UV.
	NoBurnRisk = -1

	referenceBurnMinutes = 100
	fallbackSafeMinutes  = 60
	minSafeMinutes       = 5
	minNormalBurn        = 5
	minSensitiveBurn     = 3
)

// baseMinutes is the unprotected burn time for skin types I to VI.
var baseMinutes = map[int]float64{
	1: 67,
	2: 100,
	3: 200,
	4: 300,
	5: 400,
	6: 500,
}

// BaseMinutes returns the unprotected burn time for skinType, defaulting to type II.
func BaseMinutes(skinType int) float64 {
	if m, ok := baseMinutes[skinType]; ok {
		return m
	}
	return baseMinutes[DefaultSkinType]
}

// ValidSkinType reports whether skinType is in [1,6].
func ValidSkinType(skinType int) bool {
	_, ok := baseMinutes[skinType]
	return ok
}

// SafeExposureMinutes is the advisory unprotected exposure time at uvValue.
func SafeExposureMinutes(uvValue float64, skinType int) int {
	if uvValue <= 0 {
		return fallbackSafeMinutes
	}
	safe := int(math.Floor(BaseMinutes(skinType) * PhotosensitivityFactor / uvValue))
	return max(minSafeMinutes, safe)
}

// BurnTimes are informational burn estimates for the reference skin type II.
type BurnTimes struct {
	Normal         int `json:"normalMinutes"`
	Photosensitive int `json:"photosensitiveMinutes"`
}

// NoRisk reports whether the burn times carry the no-risk sentinel.
func (b BurnTimes) NoRisk() bool {
	return b.Normal == NoBurnRisk
}

// BurnTimesFor computes burn times at uvValue.
func BurnTimesFor(uvValue float64) BurnTimes {
	if uvValue <= 0 {
		return BurnTimes{Normal: NoBurnRisk, Photosensitive: NoBurnRisk}
	}
	normal := max(minNormalBurn, int(math.Floor(referenceBurnMinutes/uvValue)))
	sensitive := max(minSensitiveBurn, int(math.Floor(float64(normal)*PhotosensitivityFactor)))
	return BurnTimes{Normal: normal, Photosensitive: sensitive}
}

// LevelFor maps a UV index to its descriptive band.
func LevelFor(uvValue float64) Level {
	switch {
	case uvValue < 3:
		return Level{Label: "Low", Emoji: "🟢"}
	case uvValue < 6:
		return Level{Label: "Moderate", Emoji: "🟡"}
	case uvValue < 8:
		return Level{Label: "High", Emoji: "🟠"}
	case uvValue < 11:
		return Level{Label: "Very high", Emoji: "🔴"}
	default:
		return Level{Label: "Extreme", Emoji: "🟣"}
	}
}
