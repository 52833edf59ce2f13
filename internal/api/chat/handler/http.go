package chatHandler

import (
	chatService "NutriVisionAI/internal/api/chat/service"
	"NutriVisionAI/internal/middleware"
	"NutriVisionAI/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs chatService.IChatService,
	utils utils.IUtils,
) *ChatHandler {
	return &ChatHandler{
		chatService: cs,
		log:         log,
		validator:   validator,
		middleware:  middleware,
		utils:       utils,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	srv.Post("/chat", h.Chat)

	chatGroup := srv.Group("/chat")
	chatGroup.Post("/quick-query", h.QuickQuery)
	chatGroup.Post("/describe-meal", h.DescribeMeal)
	chatGroup.Delete("/session/:id", h.ResetSession)

	plans := srv.Group("/plans")
	plans.Post("/meal", h.MealPlan)
	plans.Post("/workout", h.WorkoutPlan)
	plans.Post("/quick-meal", h.QuickMeal)
}
