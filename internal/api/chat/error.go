package chat

import "errors"

var (
	ErrAssistantUnavailable = errors.New("nutrition assistant is not available")
	ErrMalformedPlan        = errors.New("assistant returned a plan that could not be parsed")
	ErrInvalidImage         = errors.New("meal image could not be processed")
)
