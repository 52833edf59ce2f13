package nutritionService

import (
	"NutriVisionAI/internal/api/nutrition"
	nutritionRepository "NutriVisionAI/internal/api/nutrition/repository"
	"NutriVisionAI/internal/entity"
	"NutriVisionAI/pkg/taxonomy"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeFoods struct {
	foods map[string]entity.FoodNutrition
	err   error
}

func (f *fakeFoods) GetByKey(ctx context.Context, foodKey string) (entity.FoodNutrition, error) {
	if f.err != nil {
		return entity.FoodNutrition{}, f.err
	}
	food, ok := f.foods[foodKey]
	if !ok {
		return entity.FoodNutrition{}, nutrition.ErrFoodNotFound
	}
	return food, nil
}

func (f *fakeFoods) Upsert(ctx context.Context, food entity.FoodNutrition) error {
	f.foods[food.FoodKey] = food
	return nil
}

type fakeRepository struct {
	foods      *fakeFoods
	committed  bool
	rolledBack bool
}

func (f *fakeRepository) NewClient(tx bool) (nutritionRepository.Client, error) {
	return nutritionRepository.Client{
		Foods:    f.foods,
		Commit:   func() error { f.committed = true; return nil },
		Rollback: func() error { f.rolledBack = true; return nil },
	}, nil
}

func newTestNutritionService(repo nutritionRepository.Repository) INutritionService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewNutritionService(log, repo)
}

func TestGetFoodNutrition(t *testing.T) {
	ctx := context.Background()

	t.Run("serves the database record when present", func(t *testing.T) {
		repo := &fakeRepository{foods: &fakeFoods{foods: map[string]entity.FoodNutrition{
			"apple": {FoodKey: "apple", CaloriesPer100g: 52, ProteinG: 0.3, DefaultWeightG: 182},
		}}}
		s := newTestNutritionService(repo)

		got, err := s.GetFoodNutrition(ctx, "apple")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Source != "database" || got.ProteinG == nil || *got.ProteinG != 0.3 {
			t.Fatalf("unexpected response: %+v", got)
		}
	})

	t.Run("falls back to reference data when the record is missing", func(t *testing.T) {
		repo := &fakeRepository{foods: &fakeFoods{foods: map[string]entity.FoodNutrition{}}}
		s := newTestNutritionService(repo)

		got, err := s.GetFoodNutrition(ctx, "apple")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Source != "reference" || got.CaloriesPer100g != 52 || got.DefaultWeightG != 182 {
			t.Fatalf("unexpected response: %+v", got)
		}
		if got.ProteinG != nil {
			t.Fatal("reference data must not fabricate macronutrients")
		}
	})

	t.Run("falls back to reference data when the database errors", func(t *testing.T) {
		repo := &fakeRepository{foods: &fakeFoods{err: errors.New("connection refused")}}
		s := newTestNutritionService(repo)

		got, err := s.GetFoodNutrition(ctx, "banana")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Source != "reference" || got.FoodKey != "banana" {
			t.Fatalf("unexpected response: %+v", got)
		}
	})

	t.Run("works without a database at all", func(t *testing.T) {
		s := newTestNutritionService(nil)

		got, err := s.GetFoodNutrition(ctx, "rice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Source != "reference" {
			t.Fatalf("unexpected response: %+v", got)
		}
	})

	t.Run("resolves aliases before lookup", func(t *testing.T) {
		s := newTestNutritionService(nil)

		got, err := s.GetFoodNutrition(ctx, "cup")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.FoodKey != "coffee" {
			t.Fatalf("expected coffee, got %q", got.FoodKey)
		}
	})

	t.Run("rejects labels with no food meaning", func(t *testing.T) {
		s := newTestNutritionService(nil)

		if _, err := s.GetFoodNutrition(ctx, "plate"); !errors.Is(err, nutrition.ErrFoodNotFound) {
			t.Fatalf("expected ErrFoodNotFound, got %v", err)
		}
	})

	t.Run("unknown foods without reference data are not found", func(t *testing.T) {
		s := newTestNutritionService(nil)

		if _, err := s.GetFoodNutrition(ctx, "dragonfruit"); !errors.Is(err, nutrition.ErrFoodNotFound) {
			t.Fatalf("expected ErrFoodNotFound, got %v", err)
		}
	})
}

func TestSeedReference(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts missing foods and keeps curated rows", func(t *testing.T) {
		repo := &fakeRepository{foods: &fakeFoods{foods: map[string]entity.FoodNutrition{
			"apple": {FoodKey: "apple", CaloriesPer100g: 99, ProteinG: 0.3, DefaultWeightG: 182},
		}}}
		s := newTestNutritionService(repo)

		if err := s.SeedReference(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := repo.foods.foods["apple"].CaloriesPer100g; got != 99 {
			t.Fatalf("curated row was overwritten, calories now %v", got)
		}
		banana, ok := repo.foods.foods["banana"]
		if !ok || banana.CaloriesPer100g != 89 || banana.DefaultWeightG != 118 {
			t.Fatalf("expected banana seeded from reference data, got %+v", banana)
		}
		if len(repo.foods.foods) != len(taxonomy.Keys()) {
			t.Fatalf("expected every reference food present, have %d of %d", len(repo.foods.foods), len(taxonomy.Keys()))
		}
		if !repo.committed {
			t.Fatal("expected the seeding transaction to commit")
		}
	})

	t.Run("rolls back when the database errors", func(t *testing.T) {
		repo := &fakeRepository{foods: &fakeFoods{err: errors.New("connection refused")}}
		s := newTestNutritionService(repo)

		if err := s.SeedReference(ctx); err == nil {
			t.Fatal("expected an error, got nil")
		}
		if !repo.rolledBack {
			t.Fatal("expected the seeding transaction to roll back")
		}
	})

	t.Run("is a no-op without a database", func(t *testing.T) {
		s := newTestNutritionService(nil)

		if err := s.SeedReference(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
