package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techagentng/roadguard/detector"
	"github.com/techagentng/roadguard/models"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		detections []detector.Detection
		width      int
		height     int
		verdict    models.Severity
		count      int
	}{
		{
			name:       "no detections is safe",
			detections: nil,
			width:      1000,
			height:     1000,
			verdict:    models.SeveritySafe,
			count:      0,
		},
		{
			name: "all below confidence threshold is safe",
			detections: []detector.Detection{
				{Confidence: 0.3, Width: 500, Height: 500},
				{Confidence: 0.4, Width: 500, Height: 500},
			},
			width:   1000,
			height:  1000,
			verdict: models.SeveritySafe,
			count:   0,
		},
		{
			name: "one large defect is serious",
			detections: []detector.Detection{
				{Confidence: 0.9, Width: 200, Height: 200},
			},
			width:   1000,
			height:  1000,
			verdict: models.SeveritySerious,
			count:   1,
		},
		{
			name: "five small defects is serious by count",
			detections: []detector.Detection{
				{Confidence: 0.5, Width: 10, Height: 10},
				{Confidence: 0.5, Width: 10, Height: 10},
				{Confidence: 0.5, Width: 10, Height: 10},
				{Confidence: 0.5, Width: 10, Height: 10},
				{Confidence: 0.5, Width: 10, Height: 10},
			},
			width:   1000,
			height:  1000,
			verdict: models.SeveritySerious,
			count:   5,
		},
		{
			name: "one small defect is not serious",
			detections: []detector.Detection{
				{Confidence: 0.9, Width: 10, Height: 10},
			},
			width:   1000,
			height:  1000,
			verdict: models.SeverityNotSerious,
			count:   1,
		},
		{
			name: "four small defects stay not serious",
			detections: []detector.Detection{
				{Confidence: 0.5, Width: 10, Height: 10},
				{Confidence: 0.5, Width: 10, Height: 10},
				{Confidence: 0.5, Width: 10, Height: 10},
				{Confidence: 0.5, Width: 10, Height: 10},
			},
			width:   1000,
			height:  1000,
			verdict: models.SeverityNotSerious,
			count:   4,
		},
		{
			name: "ratio exactly at boundary is not large",
			detections: []detector.Detection{
				// 35 * 1000 / (1000 * 1000) == 0.035, not strictly greater.
				{Confidence: 0.9, Width: 35, Height: 1000},
			},
			width:   1000,
			height:  1000,
			verdict: models.SeverityNotSerious,
			count:   1,
		},
		{
			name: "low-confidence boxes don't count toward the total",
			detections: []detector.Detection{
				{Confidence: 0.9, Width: 10, Height: 10},
				{Confidence: 0.2, Width: 10, Height: 10},
				{Confidence: 0.1, Width: 10, Height: 10},
			},
			width:   1000,
			height:  1000,
			verdict: models.SeverityNotSerious,
			count:   1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verdict, count := Analyze(tc.detections, tc.width, tc.height)
			assert.Equal(t, tc.verdict, verdict)
			assert.Equal(t, tc.count, count)
		})
	}
}

func TestAnalyzeZeroAreaImage(t *testing.T) {
	// A degenerate image can't make anything "large" but counting still works.
	detections := []detector.Detection{
		{Confidence: 0.9, Width: 100, Height: 100},
	}
	verdict, count := Analyze(detections, 0, 0)
	assert.Equal(t, models.SeverityNotSerious, verdict)
	assert.Equal(t, 1, count)
}
