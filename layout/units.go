package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe helpers for lengths. Document coordinates are CSS
// pixels (96 per inch); preview renderers work in millimetres.

// Unit represents the original unit of a length value as written in a deck file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as pixels
	UnitPX               // CSS pixels
	UnitMM               // millimeters
	UnitPT               // points
)

// Conversion constants between px, pt and mm.
const (
	PxToMm = 25.4 / 96
	MmToPx = 1.0 / PxToMm
	PtToPx = 96.0 / 72
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitMM:
		return "mm"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPX converts this length to document pixels.
func (l Length) ToPX() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPx
	case UnitPT:
		return l.Value * PtToPx
	default:
		return l.Value
	}
}

// ToMM converts this length to millimetres.
func (l Length) ToMM() float64 { return l.ToPX() * PxToMm }

// ParseLength parses a length such as "220", "220px", "58mm" or "12pt".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"mm", UnitMM}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}
