// Package vitals classifies raw physiological readings and aggregates them
// into a 0-100 wellness score. It is a pure computation layer: it performs no
// I/O, holds no state, and never writes derived values back anywhere. Callers
// re-invoke it on every data snapshot.
package vitals

// MetricKind identifies a tracked physiological metric
type MetricKind string

const (
	MetricHeartRate     MetricKind = "heart_rate"
	MetricSteps         MetricKind = "steps"
	MetricSleep         MetricKind = "sleep"
	MetricWater         MetricKind = "water"
	MetricTemperature   MetricKind = "temperature"
	MetricOxygenLevel   MetricKind = "oxygen_level"
	MetricBloodPressure MetricKind = "blood_pressure"
	MetricWeight        MetricKind = "weight"
)

// AllKinds lists every metric kind in stable display order
var AllKinds = []MetricKind{
	MetricHeartRate,
	MetricSteps,
	MetricSleep,
	MetricWater,
	MetricTemperature,
	MetricOxygenLevel,
	MetricBloodPressure,
	MetricWeight,
}

// Status is the qualitative label derived from a reading
type Status string

const (
	StatusNormal Status = "Normal"
	StatusLow    Status = "Low"
	StatusHigh   Status = "High"

	// Goal-relative labels for steps
	StatusAchieved       Status = "Achieved"
	StatusAlmostThere    Status = "Almost There"
	StatusOnTrack        Status = "On Track"
	StatusGettingStarted Status = "Getting Started"
	StatusNeedMore       Status = "Need More"

	// Goal-relative labels for water
	StatusHydrated Status = "Hydrated"
	StatusHalfway  Status = "Halfway"

	// Sleep labels
	StatusGood      Status = "Good"
	StatusTooMuch   Status = "Too Much"
	StatusNotEnough Status = "Not Enough"

	// StatusUnknown marks a reading that is missing, non-finite, or
	// unparseable. Unknown readings never contribute to the score.
	StatusUnknown Status = "Unknown"
)

// Reading is the evaluator's input for a single metric. Numeric metrics
// (heart rate, steps, water, temperature, oxygen, weight) carry Numeric;
// composite metrics carry Text: sleep as "Xh Ym", blood pressure as
// "systolic/diastolic". A payload that does not match its metric kind
// evaluates to StatusUnknown.
type Reading struct {
	Numeric *float64
	Text    string
	Unit    string   // display only, never compared
	Goal    *float64 // per-reading goal override for steps and water
}

// NumericReading builds a numeric Reading
func NumericReading(value float64) Reading {
	return Reading{Numeric: &value}
}

// TextReading builds a composite Reading
func TextReading(text string) Reading {
	return Reading{Text: text}
}

// Goals holds the fallback targets for goal-relative metrics. Callers may
// override per user; zero or negative fields fall back to the defaults.
type Goals struct {
	Steps       float64
	WaterLiters float64
}

// Default goal targets applied when neither the reading nor the caller
// supplies one.
const (
	DefaultStepsGoal       = 10000
	DefaultWaterGoalLiters = 2.5
)

// DefaultGoals returns the documented fallback targets
func DefaultGoals() Goals {
	return Goals{
		Steps:       DefaultStepsGoal,
		WaterLiters: DefaultWaterGoalLiters,
	}
}

// ComponentScore is one metric's contribution to the wellness score before
// normalization, kept for the "why is my score X" breakdown in the UI.
type ComponentScore struct {
	Kind   MetricKind `json:"kind"`
	Points int        `json:"points"`
	Max    int        `json:"max"`
	Value  string     `json:"value"`
	Status Status     `json:"status"`
}

// Evaluation is the result of scoring a full snapshot of readings
type Evaluation struct {
	// Score is the normalized wellness score, 0-100. It is 0 when no
	// metric could be scored.
	Score int `json:"score"`
	// Statuses maps every metric present in the input to its label,
	// including StatusUnknown for unparseable readings.
	Statuses map[MetricKind]Status `json:"statuses"`
	// Breakdown lists only the metrics that were scored, in AllKinds order.
	Breakdown []ComponentScore `json:"breakdown"`
}

// maxComponentPoints is the fixed per-metric weight before normalization
const maxComponentPoints = 25
