package capacity

import (
	"fmt"
	"math"
)

// Unit tags a numeric value. Values are kept as numbers and only turned
// into text by the renderers.
type Unit string

const (
	UnitCount   Unit = "count"
	UnitVCPU    Unit = "vCPU"
	UnitGHz     Unit = "GHz"
	UnitGiB     Unit = "GiB"
	UnitTiB     Unit = "TiB"
	UnitPercent Unit = "%"
	UnitIOPS    Unit = "IOPS"
	UnitKBps    Unit = "KBps"
)

const binaryFactor = 1024.0

type Quantity struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func NewQuantity(v float64, u Unit) Quantity {
	return Quantity{Value: v, Unit: u}
}

func (q Quantity) String() string {
	switch q.Unit {
	case UnitCount, UnitVCPU:
		return fmt.Sprintf("%.0f %s", q.Value, q.Unit)
	case UnitPercent:
		return fmt.Sprintf("%.2f %%", q.Value)
	default:
		return fmt.Sprintf("%.2f %s", q.Value, q.Unit)
	}
}

func MiBToGiB(v float64) float64 { return v / binaryFactor }
func GiBToMiB(v float64) float64 { return v * binaryFactor }
func GiBToTiB(v float64) float64 { return v / binaryFactor }
func TiBToGiB(v float64) float64 { return v * binaryFactor }

// MHzToGHz converts a clock speed.
func MHzToGHz(v float64) float64 { return v / 1000 }

// snap removes binary floating point noise (e.g. 6.000000000000001) before
// a value is rounded towards an integer.
func snap(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

// Ceil rounds v up to the next integer.
func Ceil(v float64) float64 {
	return math.Ceil(snap(v))
}

// Floor rounds v down to the previous integer.
func Floor(v float64) float64 {
	return math.Floor(snap(v))
}

// CeilTo rounds v up at the given number of decimals.
func CeilTo(v float64, decimals int) float64 {
	f := math.Pow10(decimals)
	return math.Ceil(snap(v*f)) / f
}

// RoundTo rounds v half away from zero at the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	f := math.Pow10(decimals)
	return math.Round(snap(v*f)) / f
}

// RoundHalfEven rounds v to an integer, ties to even.
func RoundHalfEven(v float64) float64 {
	return math.RoundToEven(snap(v))
}

func ptr(v float64) *float64 {
	return &v
}

// ratio returns num/den*100, or nil when den is zero.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	return ptr(num / den * 100)
}
