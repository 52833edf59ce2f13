package entity

// FoodNutrition is the detailed per-100g nutrition record served by the
// nutrition lookup domain.
type FoodNutrition struct {
	FoodKey         string  `json:"food_key" db:"food_key"`
	CaloriesPer100g float64 `json:"calories_per_100g" db:"calories_per_100g"`
	ProteinG        float64 `json:"protein_g" db:"protein_g"`
	CarbsG          float64 `json:"carbs_g" db:"carbs_g"`
	FatG            float64 `json:"fat_g" db:"fat_g"`
	GlycemicIndex   float64 `json:"glycemic_index" db:"glycemic_index"`
	GlycemicLoad    float64 `json:"glycemic_load" db:"glycemic_load"`
	DefaultWeightG  float64 `json:"default_weight_g" db:"default_weight_g"`
}
