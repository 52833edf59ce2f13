package chatService

import (
	"NutriVisionAI/internal/api/chat"
	contextPkg "NutriVisionAI/pkg/context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/context"
)

func (s *chatService) GenerateMealPlan(ctx context.Context, req chat.MealPlanRequest) (*chat.PlanResponse, error) {
	days := req.DurationDays
	if days == 0 {
		days = defaultPlanDays
	}
	meals := req.MealsPerDay
	if meals == 0 {
		meals = defaultMealsPerDay
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Create a %d-day meal plan with %d meals per day.\n", days, meals)
	if len(req.Preferences) > 0 {
		fmt.Fprintf(&prompt, "Preferences: %s.\n", strings.Join(req.Preferences, ", "))
	}
	writeUserContext(&prompt, req.UserContext)
	prompt.WriteString(mealPlanFormat)

	return s.generatePlan(ctx, mealPlanSystemPrompt, prompt.String())
}

func (s *chatService) GenerateWorkoutPlan(ctx context.Context, req chat.WorkoutPlanRequest) (*chat.PlanResponse, error) {
	days := req.DurationDays
	if days == 0 {
		days = defaultPlanDays
	}
	perWeek := req.DaysPerWeek
	if perWeek == 0 {
		perWeek = defaultWorkoutDays
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Create a %d-day workout plan with %d training days per week.\n", days, perWeek)
	if len(req.Equipment) > 0 {
		fmt.Fprintf(&prompt, "Available equipment: %s.\n", strings.Join(req.Equipment, ", "))
	} else {
		prompt.WriteString("No equipment available, bodyweight exercises only.\n")
	}
	writeUserContext(&prompt, req.UserContext)
	prompt.WriteString(workoutPlanFormat)

	return s.generatePlan(ctx, workoutPlanSystemPrompt, prompt.String())
}

func (s *chatService) GenerateQuickMeal(ctx context.Context, req chat.QuickMealRequest) (*chat.PlanResponse, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Suggest a meal using only these ingredients: %s.\n", strings.Join(req.Ingredients, ", "))
	if req.MaxMinutes > 0 {
		fmt.Fprintf(&prompt, "Preparation must take at most %d minutes.\n", req.MaxMinutes)
	}
	prompt.WriteString(quickMealFormat)

	return s.generatePlan(ctx, quickMealSystemPrompt, prompt.String())
}

func (s *chatService) generatePlan(ctx context.Context, systemPrompt string, userPrompt string) (*chat.PlanResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.chatGPT == nil {
		return nil, chat.ErrAssistantUnavailable
	}

	result, err := s.chatGPT.CreateJSONCompletion(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.log.WithField("request_id", requestID).Errorf("Plan generation failed: %v", err)
		return nil, chat.ErrAssistantUnavailable
	}

	plan, err := extractJSON(result.Content)
	if err != nil {
		s.log.WithField("request_id", requestID).Errorf("Plan response was not valid JSON: %v", err)
		return nil, chat.ErrMalformedPlan
	}

	return &chat.PlanResponse{
		Plan:  json.RawMessage(plan),
		Model: result.Model,
	}, nil
}
