package analysis

type AnalyzeRequest struct {
	ImageBase64            string `json:"image_base64" validate:"required"`
	IncludePortionEstimate *bool  `json:"include_portion_estimate"`
}

type PortionRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	FoodName    string `json:"food_name"`
}

type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type DetectedFood struct {
	Name        string      `json:"name"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type AnalysisResponse struct {
	DetectedFoods    []DetectedFood     `json:"detected_foods"`
	PortionEstimates map[string]float64 `json:"portion_estimates"`
	ImageDimensions  ImageDimensions    `json:"image_dimensions"`
}

type PortionResponse struct {
	FoodName         string             `json:"food_name,omitempty"`
	EstimatedGrams   float64            `json:"estimated_grams,omitempty"`
	PortionEstimates map[string]float64 `json:"portion_estimates,omitempty"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Providers map[string]bool `json:"providers"`
}
