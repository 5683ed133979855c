// ABOUTME: Plausibility checks for new shower measurements
// ABOUTME: Produces advisory warnings; never blocks navigation or export
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/harperreed/measurebook/models"
)

// Plausible ranges, in inches.
const (
	MinWidth  = 28.0
	MaxWidth  = 72.0
	MinDepth  = 28.0
	MaxDepth  = 72.0
	MinHeight = 72.0
	MaxHeight = 120.0

	// CornerAllowance is how far a corner or surround may run past the depth.
	CornerAllowance = 6.0
	// Tolerance is added to CornerAllowance before a corner warns: 7" past B
	// is accepted, anything beyond is not.
	Tolerance = 1.0
)

// leadingNumber matches the decimal a value starts with, so `48"`, `48in`
// and `48 1/2` all read as 48.
var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

type depthRule struct {
	letter string
	name   string
}

var depthRules = []depthRule{
	{letter: "C", name: "Right corner"},
	{letter: "C2", name: "Right surround"},
	{letter: "E", name: "Left corner"},
	{letter: "E2", name: "Left surround"},
}

// Measurements checks the new measurements and returns every warning that
// applies, in rule order. Blank or non-numeric fields are skipped.
func Measurements(m models.Measurements) []string {
	warnings := []string{}

	if a, ok := parse(m.A.New); ok && outside(a, MinWidth, MaxWidth) {
		warnings = append(warnings, fmt.Sprintf("Width (A) of %s\" is outside the typical range of %s-%s\"",
			format(a), format(MinWidth), format(MaxWidth)))
	}

	b, hasB := parse(m.B.New)
	if hasB && outside(b, MinDepth, MaxDepth) {
		warnings = append(warnings, fmt.Sprintf("Depth (B) of %s\" is outside the typical range of %s-%s\"",
			format(b), format(MinDepth), format(MaxDepth)))
	}

	if d, ok := parse(m.D.New); ok && outside(d, MinHeight, MaxHeight) {
		warnings = append(warnings, fmt.Sprintf("Height (D) of %s\" is outside the typical range of %s-%s\"",
			format(d), format(MinHeight), format(MaxHeight)))
	}

	if !hasB {
		return warnings
	}
	for _, rule := range depthRules {
		v, ok := parse(m.Entry(rule.letter).New)
		if ok && v-b > CornerAllowance+Tolerance {
			warnings = append(warnings, fmt.Sprintf("%s exceeds depth: %s (%s\") is more than %s\" past B (%s\")",
				rule.name, rule.letter, format(v), format(CornerAllowance+Tolerance), format(b)))
		}
	}

	return warnings
}

// parse reads the leading decimal number of s, ignoring any unit or fraction
// after it. A value that does not start with a number counts as not present.
func parse(s string) (float64, bool) {
	num := leadingNumber.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func outside(v, lo, hi float64) bool {
	return v < lo || v > hi
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
