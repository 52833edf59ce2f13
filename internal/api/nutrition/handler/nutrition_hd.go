package nutritionHandler

import (
	contextPkg "NutriVisionAI/pkg/context"
	"NutriVisionAI/pkg/handlerUtil"
	"NutriVisionAI/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *NutritionHandler) GetFoodNutrition(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	foodName := ctx.Params("food")

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"food":       foodName,
	}).Debug("Processing nutrition lookup")

	result, err := h.nutritionService.GetFoodNutrition(c, foodName)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_food_nutrition")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}
