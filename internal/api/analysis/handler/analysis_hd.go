package analysisHandler

import (
	"NutriVisionAI/internal/api/analysis"
	contextPkg "NutriVisionAI/pkg/context"
	"NutriVisionAI/pkg/handlerUtil"
	"NutriVisionAI/pkg/log"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AnalysisHandler) AnalyzeFood(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing food analysis request")

	includePortionEstimate := true

	imageData, err := h.readImagePayload(ctx, func() (string, error) {
		var req analysis.AnalyzeRequest
		if err := ctx.BodyParser(&req); err != nil {
			return "", err
		}
		if err := h.validator.Struct(req); err != nil {
			return "", err
		}
		if req.IncludePortionEstimate != nil {
			includePortionEstimate = *req.IncludePortionEstimate
		}
		return req.ImageBase64, nil
	})
	if err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image_payload")
	}

	result, err := h.analysisService.AnalyzeImage(c, imageData, includePortionEstimate)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_image")
	}

	h.archiveImage(requestID, imageData)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":     requestID,
			"path":           ctx.Path(),
			"detected_foods": len(result.DetectedFoods),
		}).Info("Food analysis successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *AnalysisHandler) EstimatePortion(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing portion estimation request")

	foodName := ctx.FormValue("food_name")

	imageData, err := h.readImagePayload(ctx, func() (string, error) {
		var req analysis.PortionRequest
		if err := ctx.BodyParser(&req); err != nil {
			return "", err
		}
		if err := h.validator.Struct(req); err != nil {
			return "", err
		}
		foodName = req.FoodName
		return req.ImageBase64, nil
	})
	if err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image_payload")
	}

	result, err := h.analysisService.EstimatePortion(c, imageData, foodName)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "estimate_portion")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"food_name":  result.FoodName,
		}).Info("Portion estimation successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *AnalysisHandler) DetailedHealth(ctx *fiber.Ctx) error {
	providers := h.analysisService.ProviderStatus()

	status := "ok"
	if !providers["food_detection"] {
		status = "degraded"
	}

	return ctx.Status(fiber.StatusOK).JSON(analysis.HealthResponse{
		Status:    status,
		Providers: providers,
	})
}

// readImagePayload accepts either a multipart file upload or a JSON body
// with a base64 image, mirroring what mobile clients send.
func (h *AnalysisHandler) readImagePayload(ctx *fiber.Ctx, parseJSON func() (string, error)) ([]byte, error) {
	file, err := ctx.FormFile("image")
	if err == nil {
		if err := h.utils.ValidateImageFile(file); err != nil {
			return nil, err
		}

		fileContent, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer fileContent.Close()

		return h.utils.ReadFileBytes(fileContent)
	}

	base64Image, err := parseJSON()
	if err != nil {
		return nil, err
	}

	return decodeBase64Image(base64Image)
}

func decodeBase64Image(payload string) ([]byte, error) {
	if i := strings.Index(payload, ","); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, analysis.ErrInvalidBase64
	}

	return data, nil
}

// archiveImage uploads the analyzed image to object storage in the
// background. Archival failures never affect the response.
func (h *AnalysisHandler) archiveImage(requestID string, imageData []byte) {
	if h.s3 == nil {
		return
	}

	name, err := h.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		h.log.WithField("request_id", requestID).Warnf("Failed to generate archive name: %v", err)
		return
	}

	data := make([]byte, len(imageData))
	copy(data, imageData)

	go func() {
		contentType := http.DetectContentType(data)
		if _, err := h.s3.UploadBytes("analyzed/"+name, contentType, data); err != nil {
			h.log.WithField("request_id", requestID).Warnf("Failed to archive analyzed image: %v", err)
		}
	}()
}
