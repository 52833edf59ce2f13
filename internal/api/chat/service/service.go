package chatService

import (
	"NutriVisionAI/internal/api/chat"
	"NutriVisionAI/pkg/gemini"
	chatGPT "NutriVisionAI/pkg/openai"
	redisPkg "NutriVisionAI/pkg/redis"
	"NutriVisionAI/pkg/utils"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	sessionTTL         = 24 * time.Hour
	maxHistoryLength   = 20
	defaultPlanDays    = 7
	defaultMealsPerDay = 3
	defaultWorkoutDays = 4
)

type IChatService interface {
	ProcessChat(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error)
	QuickQuery(ctx context.Context, query string) (*chat.QuickQueryResponse, error)
	GenerateMealPlan(ctx context.Context, req chat.MealPlanRequest) (*chat.PlanResponse, error)
	GenerateWorkoutPlan(ctx context.Context, req chat.WorkoutPlanRequest) (*chat.PlanResponse, error)
	GenerateQuickMeal(ctx context.Context, req chat.QuickMealRequest) (*chat.PlanResponse, error)
	DescribeMeal(ctx context.Context, base64Image string) (*chat.DescribeMealResponse, error)
	ResetSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	log     *logrus.Logger
	chatGPT chatGPT.IChatGPT
	redis   redisPkg.IRedis
	gemini  gemini.IGemini // nil when image description is disabled
	utils   utils.IUtils
}

func NewChatService(
	log *logrus.Logger,
	gpt chatGPT.IChatGPT,
	redis redisPkg.IRedis,
	gem gemini.IGemini,
	utils utils.IUtils,
) IChatService {
	return &chatService{
		log:     log,
		chatGPT: gpt,
		redis:   redis,
		gemini:  gem,
		utils:   utils,
	}
}
