package analysisHandler

import (
	analysisService "NutriVisionAI/internal/api/analysis/service"
	"NutriVisionAI/internal/middleware"
	"NutriVisionAI/pkg/s3"
	"NutriVisionAI/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	analysisService analysisService.IAnalysisService
	utils           utils.IUtils
	s3              s3.ItfS3 // nil when image archival is disabled
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as analysisService.IAnalysisService,
	utils utils.IUtils,
	s3Client s3.ItfS3,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: as,
		log:             log,
		validator:       validator,
		middleware:      middleware,
		utils:           utils,
		s3:              s3Client,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	food := srv.Group("/food")
	food.Use("/ws", wsMiddleware)
	food.Get("/ws", websocket.New(h.handleFoodWebSocket))
	food.Post("/analyze", h.AnalyzeFood)
	food.Post("/portion", h.EstimatePortion)

	srv.Get("/health/detailed", h.DetailedHealth)
}
