package analysisService

import (
	"NutriVisionAI/internal/entity"
	depthPkg "NutriVisionAI/pkg/depth"
	"NutriVisionAI/pkg/detector"
	"io"
	"math"

	"testing"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

func newTestService(det detector.IDetector, dep depthPkg.IDepth) *analysisService {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return &analysisService{
		log:                 log,
		detector:            det,
		depth:               dep,
		inferenceSem:        semaphore.NewWeighted(2),
		confidenceThreshold: defaultConfidenceThreshold,
		typicalRatio:        defaultTypicalRatio,
		depthCalibration:    defaultDepthCalibration,
		depthNoiseFloorG:    defaultDepthNoiseFloorG,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimateGeometric(t *testing.T) {
	s := newTestService(nil, nil)
	img := entity.ImageDescriptor{Width: 1000, Height: 1000}

	t.Run("scales default weight by relative box area", func(t *testing.T) {
		// 300x300 box in a 1000x1000 image: area ratio 0.09, scale 0.6.
		box := entity.BoundingBox{X1: 100, Y1: 100, X2: 400, Y2: 400}

		got := s.estimateGeometric(img, box, "apple")
		if !almostEqual(got, 109.2) {
			t.Fatalf("expected 109.2g for apple, got %v", got)
		}
	})

	t.Run("clamps tiny boxes to half the default weight", func(t *testing.T) {
		box := entity.BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}

		got := s.estimateGeometric(img, box, "apple")
		if !almostEqual(got, 91.0) {
			t.Fatalf("expected 91.0g at the lower clamp, got %v", got)
		}
	})

	t.Run("clamps full-frame boxes to twice the default weight", func(t *testing.T) {
		box := entity.BoundingBox{X1: 0, Y1: 0, X2: 1000, Y2: 1000}

		got := s.estimateGeometric(img, box, "apple")
		if !almostEqual(got, 364.0) {
			t.Fatalf("expected 364.0g at the upper clamp, got %v", got)
		}
	})

	t.Run("unknown food key falls back to the generic default weight", func(t *testing.T) {
		box := entity.BoundingBox{X1: 100, Y1: 100, X2: 400, Y2: 400}

		got := s.estimateGeometric(img, box, "dragonfruit")
		if !almostEqual(got, 60.0) {
			t.Fatalf("expected 60.0g for unknown food, got %v", got)
		}
	})

	t.Run("never leaves the clamp band", func(t *testing.T) {
		boxes := []entity.BoundingBox{
			{X1: 0, Y1: 0, X2: 1, Y2: 1},
			{X1: 0, Y1: 0, X2: 250, Y2: 250},
			{X1: 0, Y1: 0, X2: 500, Y2: 500},
			{X1: 0, Y1: 0, X2: 1000, Y2: 1000},
		}

		for _, box := range boxes {
			got := s.estimateGeometric(img, box, "banana")
			if got < 118*minScaleFactor || got > 118*maxScaleFactor {
				t.Fatalf("estimate %v outside clamp band for box %+v", got, box)
			}
		}
	})
}

func TestEstimateVolumetric(t *testing.T) {
	s := newTestService(nil, nil)

	uniformDepth := func(width, height int, value float64) *entity.DepthMap {
		values := make([]float64, width*height)
		for i := range values {
			values[i] = value
		}
		return &entity.DepthMap{Width: width, Height: height, Values: values}
	}

	t.Run("normalizes crop depth against the image maximum", func(t *testing.T) {
		// Box region at depth 0.5 with a 1.0 peak elsewhere: normalized 0.5,
		// 90000px * 0.5 * 0.001 = 45g.
		depthMap := uniformDepth(1000, 1000, 0.5)
		depthMap.Values[0] = 1.0

		box := entity.BoundingBox{X1: 100, Y1: 100, X2: 400, Y2: 400}

		got, ok := s.estimateVolumetric(depthMap, box)
		if !ok {
			t.Fatal("expected a volumetric estimate")
		}
		if !almostEqual(got, 45.0) {
			t.Fatalf("expected 45.0g, got %v", got)
		}
	})

	t.Run("rejects estimates at or below the noise floor", func(t *testing.T) {
		depthMap := uniformDepth(1000, 1000, 1.0)

		// 100x100 box at full depth: 10000px * 1.0 * 0.001 = 10g, not above
		// the floor.
		box := entity.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}

		if _, ok := s.estimateVolumetric(depthMap, box); ok {
			t.Fatal("expected rejection at the noise floor")
		}
	})

	t.Run("rejects an all-zero depth map", func(t *testing.T) {
		depthMap := uniformDepth(1000, 1000, 0)
		box := entity.BoundingBox{X1: 100, Y1: 100, X2: 400, Y2: 400}

		if _, ok := s.estimateVolumetric(depthMap, box); ok {
			t.Fatal("expected rejection when the map has no depth signal")
		}
	})

	t.Run("rejects a box entirely outside the map", func(t *testing.T) {
		depthMap := uniformDepth(100, 100, 1.0)
		box := entity.BoundingBox{X1: 200, Y1: 200, X2: 300, Y2: 300}

		if _, ok := s.estimateVolumetric(depthMap, box); ok {
			t.Fatal("expected rejection for an out-of-map box")
		}
	})
}

func TestBlendEstimates(t *testing.T) {
	t.Run("geometric only when no volumetric signal", func(t *testing.T) {
		grams, signals := blendEstimates(109.2, 0, false)
		if !almostEqual(grams, 109.2) {
			t.Fatalf("expected 109.2g, got %v", grams)
		}
		if signals != entity.SignalsGeometricOnly {
			t.Fatalf("expected %q, got %q", entity.SignalsGeometricOnly, signals)
		}
	})

	t.Run("arithmetic mean when both signals present", func(t *testing.T) {
		grams, signals := blendEstimates(109.2, 45.0, true)
		if !almostEqual(grams, 77.1) {
			t.Fatalf("expected 77.1g, got %v", grams)
		}
		if signals != entity.SignalsGeometricDepth {
			t.Fatalf("expected %q, got %q", entity.SignalsGeometricDepth, signals)
		}
	})

	t.Run("rounds the blended value to one decimal", func(t *testing.T) {
		grams, _ := blendEstimates(100.0, 33.33, true)
		if !almostEqual(grams, 66.7) {
			t.Fatalf("expected 66.7g, got %v", grams)
		}
	})
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{0.1, 0.5, 2.0, 0.5},
		{0.5, 0.5, 2.0, 0.5},
		{1.3, 0.5, 2.0, 1.3},
		{2.0, 0.5, 2.0, 2.0},
		{7.5, 0.5, 2.0, 2.0},
	}

	for _, c := range cases {
		if got := clamp(c.v, c.lo, c.hi); !almostEqual(got, c.want) {
			t.Fatalf("clamp(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}
