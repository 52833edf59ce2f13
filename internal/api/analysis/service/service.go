package analysisService

import (
	"NutriVisionAI/internal/api/analysis"
	depthPkg "NutriVisionAI/pkg/depth"
	"NutriVisionAI/pkg/detector"
	"golang.org/x/net/context"
	"golang.org/x/sync/semaphore"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Estimation policy constants. The ratio/calibration values are empirical
// and carry no physical derivation; they can be overridden per deployment.
const (
	defaultConfidenceThreshold = 0.5
	defaultTypicalRatio        = 0.15
	defaultDepthCalibration    = 0.001
	defaultDepthNoiseFloorG    = 10.0

	fallbackDefaultWeightG = 100.0
	minScaleFactor         = 0.5
	maxScaleFactor         = 2.0
)

type IAnalysisService interface {
	AnalyzeImage(ctx context.Context, imageData []byte, includePortionEstimate bool) (*analysis.AnalysisResponse, error)
	EstimatePortion(ctx context.Context, imageData []byte, foodName string) (*analysis.PortionResponse, error)
	ProviderStatus() map[string]bool
}

type analysisService struct {
	log      *logrus.Logger
	detector detector.IDetector
	depth    depthPkg.IDepth // nil when the deployment has no depth capability

	inferenceSem *semaphore.Weighted

	confidenceThreshold float64
	typicalRatio        float64
	depthCalibration    float64
	depthNoiseFloorG    float64
}

func NewAnalysisService(
	log *logrus.Logger,
	det detector.IDetector,
	depth depthPkg.IDepth,
) IAnalysisService {
	concurrency := envInt("INFERENCE_MAX_CONCURRENCY", 2)

	return &analysisService{
		log:                 log,
		detector:            det,
		depth:               depth,
		inferenceSem:        semaphore.NewWeighted(int64(concurrency)),
		confidenceThreshold: envFloat("FOOD_CONFIDENCE_THRESHOLD", defaultConfidenceThreshold),
		typicalRatio:        envFloat("PORTION_TYPICAL_RATIO", defaultTypicalRatio),
		depthCalibration:    envFloat("PORTION_DEPTH_CALIBRATION", defaultDepthCalibration),
		depthNoiseFloorG:    envFloat("PORTION_DEPTH_NOISE_FLOOR_G", defaultDepthNoiseFloorG),
	}
}

func (s *analysisService) ProviderStatus() map[string]bool {
	status := map[string]bool{
		"food_detection":   s.detector != nil && s.detector.IsConnected(),
		"depth_estimation": s.depth != nil && s.depth.IsConnected(),
	}
	return status
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
