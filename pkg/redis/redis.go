package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"

	chatGPT "NutriVisionAI/pkg/openai"
)

type IRedis interface {
	GetConversation(ctx context.Context, sessionID string) ([]chatGPT.ConversationMessage, error)
	SaveConversation(ctx context.Context, sessionID string, history []chatGPT.ConversationMessage, expiration time.Duration) error
	DeleteConversation(ctx context.Context, sessionID string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func conversationKey(sessionID string) string {
	return fmt.Sprintf("chat:session:%s", sessionID)
}

func (r *redisClient) GetConversation(ctx context.Context, sessionID string) ([]chatGPT.ConversationMessage, error) {
	val, err := r.client.Get(ctx, conversationKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return []chatGPT.ConversationMessage{}, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting conversation for session %s: %v", sessionID, err))
		return nil, err
	}

	var history []chatGPT.ConversationMessage
	if err := json.Unmarshal([]byte(val), &history); err != nil {
		logrus.Error(fmt.Sprintf("Error decoding conversation for session %s: %v", sessionID, err))
		return nil, err
	}

	return history, nil
}

func (r *redisClient) SaveConversation(ctx context.Context, sessionID string, history []chatGPT.ConversationMessage, expiration time.Duration) error {
	payload, err := json.Marshal(history)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, conversationKey(sessionID), payload, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error saving conversation for session %s: %v", sessionID, err))
		return err
	}

	return nil
}

func (r *redisClient) DeleteConversation(ctx context.Context, sessionID string) error {
	_, err := r.client.Del(ctx, conversationKey(sessionID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting conversation for session %s: %v", sessionID, err))
		return err
	}

	return nil
}
