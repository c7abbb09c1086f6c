// Package severity turns raw detector output into a severity verdict.
package severity

import (
	"github.com/techagentng/roadguard/detector"
	"github.com/techagentng/roadguard/models"
)

const (
	// Detections at or below this confidence are noise and are discarded.
	ConfidenceThreshold = 0.4
	// A single box covering more than this share of the image is a large
	// defect and makes the report serious on its own.
	LargeDefectRatio = 0.035
	// More than this many defects means the surface is badly broken even
	// when every individual hole is small.
	SeriousCountThreshold = 4
)

// Analyze classifies a set of raw detections against the source image's
// pixel dimensions. It returns the damage count alongside the verdict; a
// count of zero comes back as SeveritySafe and the caller must reject the
// submission rather than persist it.
func Analyze(detections []detector.Detection, imgWidth, imgHeight int) (models.Severity, int) {
	var kept []detector.Detection
	for _, d := range detections {
		if d.Confidence > ConfidenceThreshold {
			kept = append(kept, d)
		}
	}

	count := len(kept)
	if count == 0 {
		return models.SeveritySafe, 0
	}

	large := false
	imgArea := float64(imgWidth) * float64(imgHeight)
	if imgArea > 0 {
		for _, d := range kept {
			if (d.Width*d.Height)/imgArea > LargeDefectRatio {
				large = true
				break
			}
		}
	}

	if count > SeriousCountThreshold || large {
		return models.SeveritySerious, count
	}
	return models.SeverityNotSerious, count
}
