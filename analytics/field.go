package analytics

// Standard pitch dimensions in meters.
const (
	DefaultFieldWidthM  = 105.0
	DefaultFieldHeightM = 68.0
)

// MapToField maps pixel coordinates to field coordinates in meters assuming
// the full frame roughly corresponds to the full pitch. This is a naive
// linear scaling, not a geometric projection; real calibration would need a
// homography.
func MapToField(x, y, frameWidth, frameHeight, fieldWidthM, fieldHeightM float64) (float64, float64) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return 0.0, 0.0
	}
	return x / frameWidth * fieldWidthM, y / frameHeight * fieldHeightM
}

// PixelToMeterRatio returns the average meters-per-pixel scale of the naive
// frame-to-pitch mapping, usable as the conversion factor for SpeedPerFrame.
func PixelToMeterRatio(frameWidth, frameHeight float64) float64 {
	if frameWidth <= 0 || frameHeight <= 0 {
		return 1.0
	}
	return (DefaultFieldWidthM/frameWidth + DefaultFieldHeightM/frameHeight) / 2.0
}
