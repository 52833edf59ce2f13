package chatHandler

import (
	"NutriVisionAI/internal/api/chat"
	contextPkg "NutriVisionAI/pkg/context"
	"NutriVisionAI/pkg/handlerUtil"
	"NutriVisionAI/pkg/log"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ChatHandler) Chat(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing chat request")

	var req chat.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.chatService.ProcessChat(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_chat")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"session_id": result.SessionID,
			"tokens":     result.TokensUsed,
		}).Info("Chat request successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *ChatHandler) QuickQuery(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req chat.QuickQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.chatService.QuickQuery(c, req.Query)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "quick_query")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *ChatHandler) DescribeMeal(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing meal description request")

	base64Image, err := h.readMealImage(ctx)
	if err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_meal_image")
	}

	result, err := h.chatService.DescribeMeal(c, base64Image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "describe_meal")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

// readMealImage accepts either a multipart file upload or a JSON body with a
// base64 image, mirroring what mobile clients send.
func (h *ChatHandler) readMealImage(ctx *fiber.Ctx) (string, error) {
	file, err := ctx.FormFile("image")
	if err == nil {
		if err := h.utils.ValidateImageFile(file); err != nil {
			return "", err
		}

		fileContent, err := file.Open()
		if err != nil {
			return "", err
		}
		defer fileContent.Close()

		return h.utils.ConvertFileToBase64(fileContent)
	}

	var req chat.DescribeMealRequest
	if err := ctx.BodyParser(&req); err != nil {
		return "", err
	}
	if err := h.validator.Struct(req); err != nil {
		return "", err
	}

	return req.ImageBase64, nil
}

func (h *ChatHandler) ResetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionID := ctx.Params("id")
	if err := h.chatService.ResetSession(c, sessionID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "reset_session")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Chat session reset")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"session_id": sessionID,
		"reset":      true,
	})
}
