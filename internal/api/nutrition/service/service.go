package nutritionService

import (
	"NutriVisionAI/internal/api/nutrition"
	nutritionRepository "NutriVisionAI/internal/api/nutrition/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type INutritionService interface {
	GetFoodNutrition(ctx context.Context, foodName string) (*nutrition.NutritionResponse, error)
	SeedReference(ctx context.Context) error
}

type nutritionService struct {
	log  *logrus.Logger
	repo nutritionRepository.Repository // nil when no database is configured
}

func NewNutritionService(log *logrus.Logger, repo nutritionRepository.Repository) INutritionService {
	return &nutritionService{
		log:  log,
		repo: repo,
	}
}
