package analysisService

import (
	"NutriVisionAI/internal/entity"
	"NutriVisionAI/pkg/taxonomy"
	"math"
)

// estimateGeometric produces the area-ratio weight estimate. The clamp
// bounds the heuristic: the default weight is trusted within a 0.5x-2.0x
// band no matter how small or large the box is. Never fails.
func (s *analysisService) estimateGeometric(img entity.ImageDescriptor, box entity.BoundingBox, foodKey string) float64 {
	imageArea := float64(img.Width) * float64(img.Height)
	areaRatio := box.Area() / imageArea

	defaultWeight := fallbackDefaultWeightG
	if info, ok := taxonomy.Lookup(foodKey); ok {
		defaultWeight = info.DefaultWeightG
	}

	scaleFactor := clamp(areaRatio/s.typicalRatio, minScaleFactor, maxScaleFactor)

	return round1(defaultWeight * scaleFactor)
}

// estimateVolumetric derives a second, independent weight signal from the
// depth map. Depth models output relative depth, so the crop mean is
// normalized against the image-wide maximum before scaling by the
// calibration constant. Estimates at or below the noise floor are rejected
// rather than surfaced as low-confidence numbers.
func (s *analysisService) estimateVolumetric(depthMap *entity.DepthMap, box entity.BoundingBox) (float64, bool) {
	meanDepth, ok := depthMap.RegionMean(box)
	if !ok {
		return 0, false
	}

	maxDepth := depthMap.Max()
	if maxDepth <= 0 {
		return 0, false
	}

	normalizedDepth := meanDepth / maxDepth
	volumeFactor := box.Area() * normalizedDepth

	estimatedGrams := volumeFactor * s.depthCalibration
	if estimatedGrams <= s.depthNoiseFloorG {
		return 0, false
	}

	return estimatedGrams, true
}

// blendEstimates fuses the two signals. Both are treated as equally
// trustworthy when present: an unweighted arithmetic mean.
func blendEstimates(geometric float64, volumetric float64, hasVolumetric bool) (float64, entity.PortionSignals) {
	if !hasVolumetric {
		return geometric, entity.SignalsGeometricOnly
	}
	return round1((geometric + volumetric) / 2), entity.SignalsGeometricDepth
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
