// Package units provides the length units accepted for report output.
// Datasets are always stored in meters.
package units

import "strings"

// Length is a display unit for distances.
type Length string

// Unit constants
const (
	Meters      Length = "m"
	Centimeters Length = "cm"
	Millimeters Length = "mm"
	Feet        Length = "ft"
	Inches      Length = "in"
)

// ValidUnits contains all valid unit values
var ValidUnits = []Length{Meters, Centimeters, Millimeters, Feet, Inches}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if Length(unit) == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	names := make([]string, len(ValidUnits))
	for i, u := range ValidUnits {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}

// ConvertLength converts a distance in meters to the target unit.
// Unknown units return the value unchanged (meters).
func ConvertLength(meters float64, target Length) float64 {
	switch target {
	case Centimeters:
		return meters * 100
	case Millimeters:
		return meters * 1000
	case Feet:
		return meters / 0.3048
	case Inches:
		return meters / 0.0254
	default:
		return meters
	}
}

// Suffix returns the printed suffix for a unit, defaulting to meters.
func (u Length) Suffix() string {
	if !IsValid(string(u)) {
		return string(Meters)
	}
	return string(u)
}
