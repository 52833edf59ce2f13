package entity

// DepthMap is a per-pixel relative depth map aligned to the analyzed image,
// stored row-major. Values are relative, not metric.
type DepthMap struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

func (d *DepthMap) At(x, y int) float64 {
	return d.Values[y*d.Width+x]
}

// Max returns the largest depth value in the whole map, or 0 for an empty
// map.
func (d *DepthMap) Max() float64 {
	var max float64
	for _, v := range d.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// RegionMean averages depth over the given box, clamped to map bounds.
// Returns false when the clamped region is empty.
func (d *DepthMap) RegionMean(box BoundingBox) (float64, bool) {
	x1, y1 := int(box.X1), int(box.Y1)
	x2, y2 := int(box.X2), int(box.Y2)

	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > d.Width {
		x2 = d.Width
	}
	if y2 > d.Height {
		y2 = d.Height
	}

	if x1 >= x2 || y1 >= y2 {
		return 0, false
	}

	var sum float64
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			sum += d.At(x, y)
		}
	}

	return sum / float64((x2-x1)*(y2-y1)), true
}
