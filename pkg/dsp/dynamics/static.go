package dynamics

import "math"

// Static phone compression is an instantaneous knee on the sample
// magnitude: threshold 0.3-0.2*amount, ratio 2+6*amount.
const (
	StaticBaseThreshold  = 0.3
	StaticThresholdRange = 0.2
	StaticBaseRatio      = 2.0
	StaticRatioRange     = 6.0
)

// StaticCompress compresses the part of |x| above the threshold. amount
// <= 0 returns x.
func StaticCompress(x, amount float32) float32 {
	if amount <= 0 {
		return x
	}
	if amount > 1 {
		amount = 1
	}

	threshold := StaticBaseThreshold - StaticThresholdRange*amount
	ratio := StaticBaseRatio + StaticRatioRange*amount

	mag := float32(math.Abs(float64(x)))
	if mag <= threshold {
		return x
	}
	out := threshold + (mag-threshold)/ratio
	if x < 0 {
		return -out
	}
	return out
}
