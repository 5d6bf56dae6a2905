package util

import (
	"github.com/fogleman/ease"
)

const (
	minLightness = 0.35
	maxLightness = 0.97
)

// Lightness maps a palette intensity (50 lightest .. 900 darkest) onto an
// HCL lightness, easing the ends so neighbouring light shades stay distinct.
func Lightness(intensity int) float64 {
	t := float64(intensity) / 1000.0
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return maxLightness - ease.InOutQuad(t)*(maxLightness-minLightness)
}

// GenerateLut builds a lightness table for intensities 0, step, 2*step ... limit.
func GenerateLut(step int, limit int) map[int]float64 {
	lut := make(map[int]float64, limit/step+1)
	for i := 0; i <= limit; i += step {
		lut[i] = Lightness(i)
	}
	return lut
}
