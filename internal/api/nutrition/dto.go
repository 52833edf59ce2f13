package nutrition

type NutritionResponse struct {
	FoodKey         string   `json:"food_key"`
	CaloriesPer100g float64  `json:"calories_per_100g"`
	ProteinG        *float64 `json:"protein_g,omitempty"`
	CarbsG          *float64 `json:"carbs_g,omitempty"`
	FatG            *float64 `json:"fat_g,omitempty"`
	GlycemicIndex   *float64 `json:"glycemic_index,omitempty"`
	GlycemicLoad    *float64 `json:"glycemic_load,omitempty"`
	DefaultWeightG  float64  `json:"default_weight_g"`
	Source          string   `json:"source"`
}
