package chatService

import (
	"NutriVisionAI/internal/api/chat"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	nutritionistBasePrompt = "You are a certified nutritionist assistant. " +
		"Answer questions about nutrition, diet, and healthy eating habits. " +
		"Keep answers practical and grounded in established dietary guidelines. " +
		"If a question requires medical diagnosis, advise consulting a doctor."

	quickQueryPrompt = "You are a nutrition expert. Answer the question briefly " +
		"and factually in at most three sentences."

	mealPlanSystemPrompt = "You are a certified nutritionist. Respond with a meal plan " +
		"as a single JSON object and nothing else."

	workoutPlanSystemPrompt = "You are a certified fitness coach. Respond with a workout plan " +
		"as a single JSON object and nothing else."

	quickMealSystemPrompt = "You are a home cooking assistant. Respond with a recipe " +
		"as a single JSON object and nothing else."

	describeMealPrompt = "Describe the meal in this photo: name the dishes you recognize, " +
		"estimate their portion sizes, and summarize the likely nutritional profile."

	mealPlanFormat = `Respond with JSON in this shape:
{"days":[{"day":1,"meals":[{"name":"...","description":"...","calories":0,"protein_g":0,"carbs_g":0,"fat_g":0}]}],"daily_calorie_target":0,"notes":"..."}`

	workoutPlanFormat = `Respond with JSON in this shape:
{"days":[{"day":1,"focus":"...","exercises":[{"name":"...","sets":0,"reps":"...","rest_seconds":0}]}],"notes":"..."}`

	quickMealFormat = `Respond with JSON in this shape:
{"name":"...","ingredients":["..."],"steps":["..."],"prep_minutes":0,"calories":0}`
)

// buildNutritionistPrompt folds the user's profile into the system prompt so
// answers are personalized without storing the profile server side.
func buildNutritionistPrompt(uc *chat.UserContext) string {
	var b strings.Builder
	b.WriteString(nutritionistBasePrompt)

	if uc == nil {
		return b.String()
	}

	b.WriteString("\n\nUser profile:")
	if uc.Name != "" {
		fmt.Fprintf(&b, "\n- Name: %s", uc.Name)
	}
	if uc.Age > 0 {
		fmt.Fprintf(&b, "\n- Age: %d", uc.Age)
	}
	if uc.Gender != "" {
		fmt.Fprintf(&b, "\n- Gender: %s", uc.Gender)
	}
	if uc.HeightCm > 0 {
		fmt.Fprintf(&b, "\n- Height: %.0f cm", uc.HeightCm)
	}
	if uc.WeightKg > 0 {
		fmt.Fprintf(&b, "\n- Weight: %.1f kg", uc.WeightKg)
	}
	if uc.ActivityLevel != "" {
		fmt.Fprintf(&b, "\n- Activity level: %s", uc.ActivityLevel)
	}
	if uc.Goal != "" {
		fmt.Fprintf(&b, "\n- Goal: %s", uc.Goal)
	}
	if len(uc.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "\n- Dietary restrictions: %s", strings.Join(uc.DietaryRestrictions, ", "))
	}
	if len(uc.HealthConditions) > 0 {
		fmt.Fprintf(&b, "\n- Health conditions: %s", strings.Join(uc.HealthConditions, ", "))
	}

	return b.String()
}

func writeUserContext(b *strings.Builder, uc *chat.UserContext) {
	if uc == nil {
		return
	}

	if uc.Goal != "" {
		fmt.Fprintf(b, "The user's goal is: %s.\n", uc.Goal)
	}
	if uc.ActivityLevel != "" {
		fmt.Fprintf(b, "Activity level: %s.\n", uc.ActivityLevel)
	}
	if len(uc.DietaryRestrictions) > 0 {
		fmt.Fprintf(b, "Dietary restrictions: %s.\n", strings.Join(uc.DietaryRestrictions, ", "))
	}
	if len(uc.HealthConditions) > 0 {
		fmt.Fprintf(b, "Health conditions to account for: %s.\n", strings.Join(uc.HealthConditions, ", "))
	}
}

// extractJSON pulls the outermost JSON object out of a model response.
// Models occasionally wrap JSON in prose or markdown fences even in JSON
// mode.
func extractJSON(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start < 0 || end < start {
		return "", errors.New("no JSON object in response")
	}

	candidate := content[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", errors.New("response JSON is malformed")
	}

	return candidate, nil
}
