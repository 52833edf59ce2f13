package nutritionRepository

const (
	queryGetByKey = `
SELECT food_key, calories_per_100g, protein_g, carbs_g, fat_g,
       glycemic_index, glycemic_load, default_weight_g
FROM food_nutrition
    WHERE food_key = :food_key`

	queryUpsert = `
INSERT INTO food_nutrition (food_key, calories_per_100g, protein_g, carbs_g, fat_g,
                            glycemic_index, glycemic_load, default_weight_g)
VALUES (:food_key, :calories_per_100g, :protein_g, :carbs_g, :fat_g,
        :glycemic_index, :glycemic_load, :default_weight_g)
ON CONFLICT (food_key) DO UPDATE
SET calories_per_100g = EXCLUDED.calories_per_100g,
    protein_g = EXCLUDED.protein_g,
    carbs_g = EXCLUDED.carbs_g,
    fat_g = EXCLUDED.fat_g,
    glycemic_index = EXCLUDED.glycemic_index,
    glycemic_load = EXCLUDED.glycemic_load,
    default_weight_g = EXCLUDED.default_weight_g`
)
