package analysisService

import (
	"NutriVisionAI/internal/api/analysis"
	"NutriVisionAI/internal/entity"
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// decodeImage reads the image header only; the raw bytes travel to the
// providers unchanged.
func decodeImage(data []byte) (entity.ImageDescriptor, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return entity.ImageDescriptor{}, analysis.ErrInvalidImage
	}

	return entity.ImageDescriptor{
		Width:  cfg.Width,
		Height: cfg.Height,
		Data:   data,
	}, nil
}

// normalizeDetections converts raw provider boxes into typed detections.
// Sub-threshold or out-of-range confidences and boxes with degenerate
// geometry carry no usable signal and are dropped silently. An empty result
// is a valid outcome, not an error.
func (s *analysisService) normalizeDetections(img entity.ImageDescriptor, raw []entity.ProviderDetection) []entity.RawDetection {
	detections := make([]entity.RawDetection, 0, len(raw))

	for _, d := range raw {
		// Confidence is a probability. The negated form also drops NaN.
		if !(d.Confidence >= s.confidenceThreshold && d.Confidence <= 1) {
			continue
		}

		box := entity.BoundingBox{
			X1: d.BBox[0],
			Y1: d.BBox[1],
			X2: d.BBox[2],
			Y2: d.BBox[3],
		}

		if box.X1 >= box.X2 || box.Y1 >= box.Y2 {
			continue
		}
		if box.X1 < 0 || box.Y1 < 0 || box.X2 > float64(img.Width) || box.Y2 > float64(img.Height) {
			continue
		}

		detections = append(detections, entity.RawDetection{
			ClassLabel: d.ClassLabel,
			Confidence: d.Confidence,
			Box:        box,
		})
	}

	return detections
}
