package nutritionHandler

import (
	nutritionService "NutriVisionAI/internal/api/nutrition/service"
	"NutriVisionAI/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type NutritionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	nutritionService nutritionService.INutritionService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ns nutritionService.INutritionService,
) *NutritionHandler {
	return &NutritionHandler{
		nutritionService: ns,
		log:              log,
		validator:        validator,
		middleware:       middleware,
	}
}

func (h *NutritionHandler) Start(srv fiber.Router) {
	srv.Get("/nutrition/:food", h.GetFoodNutrition)
}
