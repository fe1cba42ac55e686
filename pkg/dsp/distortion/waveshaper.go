// Package distortion provides the nonlinear shaping stage of the phone chain.
package distortion

import (
	"math"
)

// Curve selects the base transfer function of a Profile.
type Curve int

const (
	// CurveHardLimit clips the signal at the profile ceiling
	CurveHardLimit Curve = iota
	// CurveTanh applies a tanh soft clip scaled by the ceiling
	CurveTanh
	// CurveAsymmetricAtan applies atan with different positive and negative halves
	CurveAsymmetricAtan
)

func (c Curve) String() string {
	switch c {
	case CurveHardLimit:
		return "hard-limit"
	case CurveTanh:
		return "tanh"
	case CurveAsymmetricAtan:
		return "asymmetric-atan"
	default:
		return "unknown"
	}
}

// HardClip clips x to ±ceiling.
func HardClip(x, ceiling float64) float64 {
	if x > ceiling {
		return ceiling
	} else if x < -ceiling {
		return -ceiling
	}
	return x
}

// SoftClip is ceiling·tanh(x).
func SoftClip(x, ceiling float64) float64 {
	return ceiling * math.Tanh(x)
}

// AsymmetricAtan saturates the positive half with pos·atan(x) and the
// negative half with neg·atan(negDrive·x).
func AsymmetricAtan(x, pos, neg, negDrive float64) float64 {
	if x >= 0 {
		return pos * math.Atan(x)
	}
	return neg * math.Atan(x*negDrive)
}
