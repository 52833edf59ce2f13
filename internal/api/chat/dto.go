package chat

import "encoding/json"

type UserContext struct {
	Name                string   `json:"name,omitempty"`
	Age                 int      `json:"age,omitempty"`
	Gender              string   `json:"gender,omitempty"`
	HeightCm            float64  `json:"height_cm,omitempty"`
	WeightKg            float64  `json:"weight_kg,omitempty"`
	ActivityLevel       string   `json:"activity_level,omitempty"`
	Goal                string   `json:"goal,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	HealthConditions    []string `json:"health_conditions,omitempty"`
}

type ChatRequest struct {
	Message     string       `json:"message" validate:"required"`
	SessionID   string       `json:"session_id"`
	UserContext *UserContext `json:"user_context"`
}

type ChatResponse struct {
	Response   string `json:"response"`
	SessionID  string `json:"session_id"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

type QuickQueryRequest struct {
	Query string `json:"query" validate:"required"`
}

type QuickQueryResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

type MealPlanRequest struct {
	UserContext  *UserContext `json:"user_context"`
	DurationDays int          `json:"duration_days" validate:"omitempty,min=1,max=30"`
	MealsPerDay  int          `json:"meals_per_day" validate:"omitempty,min=1,max=8"`
	Preferences  []string     `json:"preferences"`
}

type WorkoutPlanRequest struct {
	UserContext  *UserContext `json:"user_context"`
	DurationDays int          `json:"duration_days" validate:"omitempty,min=1,max=30"`
	DaysPerWeek  int          `json:"days_per_week" validate:"omitempty,min=1,max=7"`
	Equipment    []string     `json:"equipment"`
}

type QuickMealRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1"`
	MaxMinutes  int      `json:"max_minutes" validate:"omitempty,min=5,max=240"`
}

type PlanResponse struct {
	Plan  json.RawMessage `json:"plan"`
	Model string          `json:"model"`
}

type DescribeMealRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type DescribeMealResponse struct {
	Description string `json:"description"`
}
