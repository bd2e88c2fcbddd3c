package exifmeta

import (
	"fmt"
	"math"
	"strconv"
)

// ratio converts an EXIF rational to a float. A zero denominator is invalid.
func ratio(num, den int64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// formatExposure renders sub-second exposures as a reciprocal ("1/125") and
// longer ones as plain seconds ("2.5").
func formatExposure(t float64) string {
	if t < 1 {
		return fmt.Sprintf("1/%d", int64(math.Round(1/t)))
	}
	return strconv.FormatFloat(round1(t), 'f', -1, 64)
}

func formatFNumber(f float64) string {
	return strconv.FormatFloat(round1(f), 'f', -1, 64)
}

// formatFocal rounds a focal length to whole millimetres.
func formatFocal(mm float64) string {
	return fmt.Sprintf("%d mm", int64(math.Round(mm)))
}

func formatBias(ev float64) string {
	ev = round1(ev)
	if ev == 0 {
		return "0 EV"
	}
	s := strconv.FormatFloat(ev, 'f', -1, 64)
	if ev > 0 {
		s = "+" + s
	}
	return s + " EV"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func whiteBalanceName(v int) string {
	switch v {
	case 0:
		return "Auto"
	case 1:
		return "Manual"
	default:
		return "N/A"
	}
}

func meteringModeName(v int) string {
	switch v {
	case 1:
		return "Average"
	case 2:
		return "Center-weighted average"
	case 3:
		return "Spot"
	case 4:
		return "Multi-spot"
	case 5:
		return "Multi-segment"
	case 6:
		return "Partial"
	case 255:
		return "Other"
	default:
		return "Unknown"
	}
}

// flashName reads bit 0 (fired) and bits 3-4 (mode 3 = auto).
func flashName(v int) string {
	fired := v&0x1 != 0
	auto := (v>>3)&0x3 == 3
	switch {
	case fired && auto:
		return "Fired, Auto"
	case fired:
		return "Fired"
	case auto:
		return "Did not fire, Auto"
	default:
		return "Did not fire"
	}
}
