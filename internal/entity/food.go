package entity

// BoundingBox is an axis-aligned box in pixel coordinates, x1 < x2 and
// y1 < y2.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

func (b BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

func (b BoundingBox) Area() float64 {
	return b.Width() * b.Height()
}

// ImageDescriptor describes a decoded input image. Data keeps the original
// encoded bytes so provider clients can forward them unchanged.
type ImageDescriptor struct {
	Width  int
	Height int
	Data   []byte
}

// ProviderDetection is one raw box exactly as the detector provider reports
// it, before any normalization.
type ProviderDetection struct {
	ClassLabel string     `json:"class_label"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// RawDetection is one normalized detector output: confidence already
// checked against the threshold and the box verified against image bounds.
type RawDetection struct {
	ClassLabel string
	Confidence float64
	Box        BoundingBox
}

// DetectedFood is a kept detection after taxonomy mapping.
type DetectedFood struct {
	FoodKey    string
	Confidence float64
	Box        BoundingBox
}

// PortionSignals records which estimation signals contributed to a final
// weight.
type PortionSignals string

const (
	SignalsGeometricOnly  PortionSignals = "geometric"
	SignalsGeometricDepth PortionSignals = "geometric+depth"
)

// PortionEstimate is the final weight judgment for one food key in one image.
type PortionEstimate struct {
	FoodKey        string
	EstimatedGrams float64
	Signals        PortionSignals
}
