package nutritionService

import (
	"NutriVisionAI/internal/api/nutrition"
	"NutriVisionAI/internal/entity"
	contextPkg "NutriVisionAI/pkg/context"
	"NutriVisionAI/pkg/taxonomy"
	"errors"

	"golang.org/x/net/context"
)

// GetFoodNutrition serves the database record when one exists and falls back
// to the static taxonomy reference otherwise. A missing or unreachable
// database therefore narrows the data, it never breaks the lookup.
func (s *nutritionService) GetFoodNutrition(ctx context.Context, foodName string) (*nutrition.NutritionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	key, ok := taxonomy.Resolve(foodName)
	if !ok {
		return nil, nutrition.ErrFoodNotFound
	}

	if s.repo != nil {
		resp, err := s.lookupDatabase(ctx, requestID, key)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, nutrition.ErrFoodNotFound) {
			s.log.WithField("request_id", requestID).Warnf("Nutrition database lookup failed, using reference data: %v", err)
		}
	}

	info, found := taxonomy.Lookup(key)
	if !found {
		return nil, nutrition.ErrFoodNotFound
	}

	return &nutrition.NutritionResponse{
		FoodKey:         key,
		CaloriesPer100g: info.CaloriesPer100g,
		DefaultWeightG:  info.DefaultWeightG,
		Source:          "reference",
	}, nil
}

// SeedReference inserts the static reference entry for every food the
// database does not know yet, in one transaction. Existing rows may carry
// curated macros and are left untouched.
func (s *nutritionService) SeedReference(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	client, err := s.repo.NewClient(true)
	if err != nil {
		return err
	}

	for _, key := range taxonomy.Keys() {
		if _, err := client.Foods.GetByKey(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, nutrition.ErrFoodNotFound) {
			client.Rollback()
			return err
		}

		info, _ := taxonomy.Lookup(key)
		if err := client.Foods.Upsert(ctx, entity.FoodNutrition{
			FoodKey:         key,
			CaloriesPer100g: info.CaloriesPer100g,
			DefaultWeightG:  info.DefaultWeightG,
		}); err != nil {
			client.Rollback()
			return err
		}
	}

	return client.Commit()
}

func (s *nutritionService) lookupDatabase(ctx context.Context, requestID string, key string) (*nutrition.NutritionResponse, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	food, err := client.Foods.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	return &nutrition.NutritionResponse{
		FoodKey:         food.FoodKey,
		CaloriesPer100g: food.CaloriesPer100g,
		ProteinG:        &food.ProteinG,
		CarbsG:          &food.CarbsG,
		FatG:            &food.FatG,
		GlycemicIndex:   &food.GlycemicIndex,
		GlycemicLoad:    &food.GlycemicLoad,
		DefaultWeightG:  food.DefaultWeightG,
		Source:          "database",
	}, nil
}
