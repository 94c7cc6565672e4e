package vitals

import (
	"math"
	"strconv"
	"strings"
)

// StatusFor classifies a single reading. Invalid input of any shape degrades
// to StatusUnknown; the function never fails.
func StatusFor(kind MetricKind, r Reading, goals Goals) Status {
	switch kind {
	case MetricHeartRate:
		v, ok := numericValue(r)
		if !ok {
			return StatusUnknown
		}
		// Bounds are inclusive: 60 and 100 both read as Normal.
		if v < 60 {
			return StatusLow
		}
		if v > 100 {
			return StatusHigh
		}
		return StatusNormal

	case MetricSteps:
		pct, ok := goalPercentage(r, goals.Steps, DefaultStepsGoal)
		if !ok {
			return StatusUnknown
		}
		switch {
		case pct >= 100:
			return StatusAchieved
		case pct >= 75:
			return StatusAlmostThere
		case pct >= 50:
			return StatusOnTrack
		case pct >= 25:
			return StatusGettingStarted
		default:
			return StatusNeedMore
		}

	case MetricWater:
		pct, ok := goalPercentage(r, goals.WaterLiters, DefaultWaterGoalLiters)
		if !ok {
			return StatusUnknown
		}
		switch {
		case pct >= 100:
			return StatusHydrated
		case pct >= 75:
			return StatusAlmostThere
		case pct >= 50:
			return StatusHalfway
		default:
			return StatusNeedMore
		}

	case MetricSleep:
		hours, ok := parseSleepHours(r.Text)
		if !ok {
			return StatusUnknown
		}
		switch {
		case hours >= 7 && hours <= 9:
			return StatusGood
		case hours > 9:
			return StatusTooMuch
		default:
			return StatusNotEnough
		}

	case MetricTemperature:
		v, ok := numericValue(r)
		if !ok {
			return StatusUnknown
		}
		if v < 36 {
			return StatusLow
		}
		if v > 37.5 {
			return StatusHigh
		}
		return StatusNormal

	case MetricOxygenLevel:
		v, ok := numericValue(r)
		if !ok {
			return StatusUnknown
		}
		// Saturation above 100% is physiologically impossible. It is
		// treated as invalid here and in scoring, not as Normal.
		if v > 100 {
			return StatusUnknown
		}
		if v < 95 {
			return StatusLow
		}
		return StatusNormal

	case MetricBloodPressure:
		sys, dia, ok := parseBloodPressure(r.Text)
		if !ok {
			return StatusUnknown
		}
		if sys >= 140 || dia >= 90 {
			return StatusHigh
		}
		if sys <= 90 || dia <= 60 {
			return StatusLow
		}
		return StatusNormal

	case MetricWeight:
		v, ok := numericValue(r)
		if !ok {
			return StatusUnknown
		}
		if v < 45 {
			return StatusLow
		}
		if v > 100 {
			return StatusHigh
		}
		return StatusNormal

	default:
		return StatusUnknown
	}
}

// ComputeWellnessScore scores every parseable reading on its 0-25 band table
// and normalizes by the number of metrics actually scored:
//
//	score = round(total / (countScored * 25) * 100)
//
// Metrics with missing or unparseable values are excluded from the
// denominator, not scored as zero. An empty or fully-invalid snapshot yields
// score 0. The computation is pure: identical input always produces
// identical output.
func ComputeWellnessScore(readings map[MetricKind]Reading, goals Goals) Evaluation {
	eval := Evaluation{
		Statuses: make(map[MetricKind]Status, len(readings)),
	}

	total := 0
	scored := 0

	for _, kind := range AllKinds {
		r, present := readings[kind]
		if !present {
			continue
		}

		status := StatusFor(kind, r, goals)
		eval.Statuses[kind] = status
		if status == StatusUnknown {
			continue
		}

		points := componentPoints(kind, r, goals)
		total += points
		scored++

		eval.Breakdown = append(eval.Breakdown, ComponentScore{
			Kind:   kind,
			Points: points,
			Max:    maxComponentPoints,
			Value:  displayValue(r),
			Status: status,
		})
	}

	if scored > 0 {
		eval.Score = int(math.Round(float64(total) / float64(scored*maxComponentPoints) * 100))
	}

	return eval
}

// componentPoints awards 0-25 points on the metric's band table. It is only
// called for readings that already classified to a known status, so parsing
// cannot fail here.
func componentPoints(kind MetricKind, r Reading, goals Goals) int {
	switch kind {
	case MetricHeartRate:
		v, _ := numericValue(r)
		switch {
		case v < 50:
			return 0
		case v < 60:
			return 15
		case v <= 80:
			return 25
		case v <= 100:
			return 20
		case v <= 120:
			return 10
		default:
			return 0
		}

	case MetricSteps:
		pct, _ := goalPercentage(r, goals.Steps, DefaultStepsGoal)
		switch {
		case pct >= 100:
			return 25
		case pct >= 75:
			return 20
		case pct >= 50:
			return 15
		case pct >= 25:
			return 10
		default:
			return 0
		}

	case MetricWater:
		pct, _ := goalPercentage(r, goals.WaterLiters, DefaultWaterGoalLiters)
		// Non-monotonic: intake far past the goal scores worse than
		// meeting it.
		switch {
		case pct >= 200:
			return 5
		case pct >= 150:
			return 15
		case pct >= 100:
			return 25
		case pct >= 75:
			return 20
		case pct >= 50:
			return 10
		default:
			return 0
		}

	case MetricSleep:
		h, _ := parseSleepHours(r.Text)
		switch {
		case h >= 7 && h <= 9:
			return 25
		case (h >= 6 && h < 7) || (h > 9 && h <= 10):
			return 15
		case (h >= 5 && h < 6) || (h > 10 && h <= 11):
			return 5
		default:
			return 0
		}

	case MetricTemperature:
		v, _ := numericValue(r)
		switch {
		case v >= 36.1 && v <= 37.2:
			return 25
		case (v >= 35.5 && v < 36.1) || (v > 37.2 && v <= 38):
			return 15
		case (v >= 35 && v < 35.5) || (v > 38 && v <= 39):
			return 5
		default:
			return 0
		}

	case MetricOxygenLevel:
		v, _ := numericValue(r)
		switch {
		case v >= 95:
			return 25
		case v >= 90:
			return 15
		case v >= 85:
			return 5
		default:
			return 0
		}

	case MetricBloodPressure:
		sys, _, _ := parseBloodPressure(r.Text)
		switch {
		case sys < 120:
			return 25
		case sys < 130:
			return 20
		case sys < 140:
			return 15
		case sys < 160:
			return 5
		default:
			return 0
		}

	case MetricWeight:
		v, _ := numericValue(r)
		switch {
		case v >= 50 && v <= 100:
			return 25
		case (v >= 45 && v < 50) || (v > 100 && v <= 110):
			return 15
		case (v >= 40 && v < 45) || (v > 110 && v <= 120):
			return 5
		default:
			return 0
		}

	default:
		return 0
	}
}

// numericValue extracts a finite numeric payload
func numericValue(r Reading) (float64, bool) {
	if r.Numeric == nil {
		return 0, false
	}
	v := *r.Numeric
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// goalPercentage computes value/goal*100 for goal-relative metrics. The goal
// resolves from the reading, then the caller's Goals, then the package
// default; non-positive candidates are skipped.
func goalPercentage(r Reading, configured, fallback float64) (float64, bool) {
	v, ok := numericValue(r)
	if !ok {
		return 0, false
	}

	goal := fallback
	if configured > 0 {
		goal = configured
	}
	if r.Goal != nil && !math.IsNaN(*r.Goal) && !math.IsInf(*r.Goal, 0) && *r.Goal > 0 {
		goal = *r.Goal
	}

	return v / goal * 100, true
}

// parseSleepHours reads the hour count out of an "Xh Ym" duration string.
// Only the token before the "h" marker is parsed; the minutes component is
// deliberately ignored, so "6h 59m" evaluates as 6 hours. Fractional hour
// tokens like "7.5h" are accepted.
func parseSleepHours(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	idx := strings.IndexAny(s, "hH")
	if idx < 0 {
		return 0, false
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, false
	}
	return hours, true
}

// parseBloodPressure splits a "systolic/diastolic" string into its parts.
// Anything other than exactly two finite numeric tokens fails.
func parseBloodPressure(text string) (sys, dia float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 2 {
		return 0, 0, false
	}

	sys, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || math.IsNaN(sys) || math.IsInf(sys, 0) {
		return 0, 0, false
	}
	dia, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || math.IsNaN(dia) || math.IsInf(dia, 0) {
		return 0, 0, false
	}
	return sys, dia, true
}

// displayValue renders the raw value the evaluator considered, for the
// score breakdown shown to the user
func displayValue(r Reading) string {
	if r.Numeric != nil {
		s := strconv.FormatFloat(*r.Numeric, 'f', -1, 64)
		if r.Unit != "" {
			return s + " " + r.Unit
		}
		return s
	}
	return r.Text
}
