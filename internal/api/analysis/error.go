package analysis

import (
	"NutriVisionAI/pkg/response"
	"errors"
	"net/http"
)

var (
	ErrModelUnavailable = errors.New("food detection model is not available")
	ErrInvalidImage     = errors.New("image could not be decoded")
	ErrFoodNotDetected  = errors.New("requested food was not detected in the image")
	ErrInvalidBase64    = errors.New("image payload is not valid base64")

	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrBadRequest          = response.NewError(http.StatusBadRequest, "bad request")
)
