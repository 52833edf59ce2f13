package analysisService

import (
	"NutriVisionAI/internal/api/analysis"
	"NutriVisionAI/internal/entity"
	contextPkg "NutriVisionAI/pkg/context"
	"NutriVisionAI/pkg/taxonomy"
	"math"

	"golang.org/x/net/context"
)

func (s *analysisService) AnalyzeImage(ctx context.Context, imageData []byte, includePortionEstimate bool) (*analysis.AnalysisResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.detector == nil {
		return nil, analysis.ErrModelUnavailable
	}

	img, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	if err := s.inferenceSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.inferenceSem.Release(1)

	raw, err := s.detector.Detect(img.Data, s.confidenceThreshold)
	if err != nil {
		s.log.WithField("request_id", requestID).Errorf("Food detection failed: %v", err)
		return nil, analysis.ErrModelUnavailable
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	foods := s.mapDetections(img, raw)

	response := &analysis.AnalysisResponse{
		DetectedFoods:    make([]analysis.DetectedFood, 0, len(foods)),
		PortionEstimates: make(map[string]float64),
		ImageDimensions: analysis.ImageDimensions{
			Width:  img.Width,
			Height: img.Height,
		},
	}

	for _, f := range foods {
		response.DetectedFoods = append(response.DetectedFoods, analysis.DetectedFood{
			Name:       f.FoodKey,
			Confidence: math.Round(f.Confidence*1000) / 1000,
			BoundingBox: analysis.BoundingBox{
				X:      int(f.Box.X1),
				Y:      int(f.Box.Y1),
				Width:  int(f.Box.Width()),
				Height: int(f.Box.Height()),
			},
		})
	}

	if !includePortionEstimate || len(foods) == 0 {
		return response, nil
	}

	depthMap := s.fetchDepthMap(requestID, img)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, estimate := range s.estimatePortions(img, foods, depthMap) {
		response.PortionEstimates[estimate.FoodKey] = estimate.EstimatedGrams
	}

	return response, nil
}

func (s *analysisService) EstimatePortion(ctx context.Context, imageData []byte, foodName string) (*analysis.PortionResponse, error) {
	result, err := s.AnalyzeImage(ctx, imageData, true)
	if err != nil {
		return nil, err
	}

	if foodName == "" {
		return &analysis.PortionResponse{PortionEstimates: result.PortionEstimates}, nil
	}

	key, ok := taxonomy.Resolve(foodName)
	if !ok {
		return nil, analysis.ErrFoodNotDetected
	}

	grams, ok := result.PortionEstimates[key]
	if !ok {
		return nil, analysis.ErrFoodNotDetected
	}

	return &analysis.PortionResponse{
		FoodName:       key,
		EstimatedGrams: grams,
	}, nil
}

// mapDetections normalizes provider boxes and folds detector labels onto the
// canonical taxonomy. Labels with no food meaning are dropped here.
func (s *analysisService) mapDetections(img entity.ImageDescriptor, raw []entity.ProviderDetection) []entity.DetectedFood {
	normalized := s.normalizeDetections(img, raw)

	foods := make([]entity.DetectedFood, 0, len(normalized))
	for _, d := range normalized {
		key, ok := taxonomy.Resolve(d.ClassLabel)
		if !ok {
			continue
		}

		foods = append(foods, entity.DetectedFood{
			FoodKey:    key,
			Confidence: d.Confidence,
			Box:        d.Box,
		})
	}

	return foods
}

// fetchDepthMap runs the depth provider once for the whole image. Depth is
// strictly best effort: any failure, including a map whose dimensions do not
// match the analyzed image, degrades the pipeline to geometric-only.
func (s *analysisService) fetchDepthMap(requestID string, img entity.ImageDescriptor) *entity.DepthMap {
	if s.depth == nil {
		return nil
	}

	depthMap, err := s.depth.EstimateDepth(img.Data)
	if err != nil {
		s.log.WithField("request_id", requestID).Warnf("Depth estimation failed, continuing with geometric estimates only: %v", err)
		return nil
	}

	if depthMap.Width != img.Width || depthMap.Height != img.Height {
		s.log.WithField("request_id", requestID).Warnf(
			"Depth map dimensions %dx%d do not match image %dx%d, discarding",
			depthMap.Width, depthMap.Height, img.Width, img.Height,
		)
		return nil
	}

	return depthMap
}

// estimatePortions produces one estimate per distinct food key. When the same
// food is detected more than once the later detection wins.
func (s *analysisService) estimatePortions(img entity.ImageDescriptor, foods []entity.DetectedFood, depthMap *entity.DepthMap) []entity.PortionEstimate {
	byKey := make(map[string]int, len(foods))
	estimates := make([]entity.PortionEstimate, 0, len(foods))

	for _, f := range foods {
		geometric := s.estimateGeometric(img, f.Box, f.FoodKey)

		var volumetric float64
		var hasVolumetric bool
		if depthMap != nil {
			volumetric, hasVolumetric = s.estimateVolumetric(depthMap, f.Box)
		}

		grams, signals := blendEstimates(geometric, volumetric, hasVolumetric)

		estimate := entity.PortionEstimate{
			FoodKey:        f.FoodKey,
			EstimatedGrams: grams,
			Signals:        signals,
		}

		if i, ok := byKey[f.FoodKey]; ok {
			estimates[i] = estimate
			continue
		}

		byKey[f.FoodKey] = len(estimates)
		estimates = append(estimates, estimate)
	}

	return estimates
}
