package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Duct nominals are matched three ways: normalized text equality, parsed
// inches (mixed fractions like `1 1/2"`), and parsed millimeters. Rect tray
// sizes parse as "WxH" with mm/cm/inch units and match within a tolerance,
// orientation-insensitive.

// Matching tolerances.
const (
	nominalInchTolerance = 0.01
	nominalMMTolerance   = 0.5
	rectSizeToleranceMM  = 0.6
)

var (
	numberRe     = regexp.MustCompile(`\d+(\.\d+)?`)
	rectNumberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// NormalizeNominal canonicalizes a nominal string for text comparison.
func NormalizeNominal(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return spaceRe.ReplaceAllString(s, " ")
}

// ParseNominalInches extracts a duct nominal in inches.
// Accepts plain numbers, inch-marked values, and mixed fractions
// (`1 1/2`, `1-1/2"`). Returns false for mm-marked or unparseable input.
func ParseNominalInches(text string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(s, "mm") {
		return 0, false
	}
	if strings.ContainsAny(s, `"/`) || strings.Contains(s, "in") {
		s = strings.ReplaceAll(s, "in", "")
		s = strings.ReplaceAll(s, `"`, "")
		return parseMixedFraction(strings.TrimSpace(s))
	}
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseNominalMM extracts a duct nominal in millimeters.
// Returns false unless the text carries an mm unit.
func ParseNominalMM(text string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if !strings.Contains(s, "mm") {
		return 0, false
	}
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseMixedFraction parses "1 1/2" or "1-1/2" style values.
func parseMixedFraction(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "-", " ")
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return 0, false
	}
	if len(parts) == 1 {
		return parseFraction(parts[0])
	}
	whole, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	frac, ok := parseFraction(parts[1])
	if !ok {
		return whole, true
	}
	return whole + frac, true
}

func parseFraction(text string) (float64, bool) {
	if num, den, found := strings.Cut(text, "/"); found {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN != nil || errD != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NominalMatches reports whether two duct nominal strings refer to the same
// size: exact normalized text, inches within 0.01, or mm within 0.5.
func NominalMatches(a, b string) bool {
	na, nb := NormalizeNominal(a), NormalizeNominal(b)
	if na != "" && na == nb {
		return true
	}
	if ia, okA := ParseNominalInches(a); okA {
		if ib, okB := ParseNominalInches(b); okB && math.Abs(ia-ib) <= nominalInchTolerance {
			return true
		}
	}
	if ma, okA := ParseNominalMM(a); okA {
		if mb, okB := ParseNominalMM(b); okB && math.Abs(ma-mb) <= nominalMMTolerance {
			return true
		}
	}
	return false
}

// ParseRectSizeMM parses a rectangular size string ("300x100", "30x10 cm",
// `12x4"`) into width and height in millimeters.
func ParseRectSizeMM(text string) (w, h float64, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, 0, false
	}

	factor := 1.0
	switch {
	case strings.Contains(s, "cm"):
		factor = 10.0
	case strings.Contains(s, "mm"):
		factor = 1.0
	case strings.Contains(s, `"`) || strings.Contains(s, "in"):
		factor = 25.4
	}

	nums := rectNumberRe.FindAllString(s, -1)
	if len(nums) < 2 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(strings.ReplaceAll(nums[0], ",", "."), 64)
	h, errH := strconv.ParseFloat(strings.ReplaceAll(nums[1], ",", "."), 64)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w * factor, h * factor, true
}

// RectMatches reports whether a profile's inner dimensions match a target
// size within tolerance, in either orientation.
func RectMatches(w, h, targetW, targetH float64) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	const tol = rectSizeToleranceMM
	return (math.Abs(w-targetW) <= tol && math.Abs(h-targetH) <= tol) ||
		(math.Abs(w-targetH) <= tol && math.Abs(h-targetW) <= tol)
}

// FormatRectSize renders width and height in mm as a canonical "WxH" string,
// dropping trailing zeros.
func FormatRectSize(w, h float64) string {
	return fmtDim(w) + "x" + fmtDim(h)
}

func fmtDim(n float64) string {
	if math.Abs(n-math.Round(n)) < 1e-6 {
		return strconv.Itoa(int(math.Round(n)))
	}
	s := fmt.Sprintf("%.1f", n)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
