package chatService

import (
	"NutriVisionAI/internal/api/chat"
	contextPkg "NutriVisionAI/pkg/context"
	chatGPT "NutriVisionAI/pkg/openai"
	"time"

	"golang.org/x/net/context"
)

func (s *chatService) ProcessChat(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.chatGPT == nil {
		return nil, chat.ErrAssistantUnavailable
	}

	sessionID := req.SessionID
	if sessionID == "" {
		id, err := s.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			return nil, err
		}
		sessionID = id
	}

	history := s.loadHistory(ctx, requestID, sessionID)

	systemPrompt := buildNutritionistPrompt(req.UserContext)

	result, err := s.chatGPT.ProcessConversation(ctx, systemPrompt, history, req.Message)
	if err != nil {
		s.log.WithField("request_id", requestID).Errorf("Chat completion failed: %v", err)
		return nil, chat.ErrAssistantUnavailable
	}

	history = append(history,
		chatGPT.ConversationMessage{Role: "user", Content: req.Message},
		chatGPT.ConversationMessage{Role: "assistant", Content: result.Content},
	)
	if len(history) > maxHistoryLength {
		history = history[len(history)-maxHistoryLength:]
	}

	if s.redis != nil {
		if err := s.redis.SaveConversation(ctx, sessionID, history, sessionTTL); err != nil {
			s.log.WithField("request_id", requestID).Warnf("Failed to save conversation history: %v", err)
		}
	}

	return &chat.ChatResponse{
		Response:   result.Content,
		SessionID:  sessionID,
		Model:      result.Model,
		TokensUsed: result.TokensUsed,
	}, nil
}

func (s *chatService) QuickQuery(ctx context.Context, query string) (*chat.QuickQueryResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.chatGPT == nil {
		return nil, chat.ErrAssistantUnavailable
	}

	result, err := s.chatGPT.ProcessConversation(ctx, quickQueryPrompt, nil, query)
	if err != nil {
		s.log.WithField("request_id", requestID).Errorf("Quick query failed: %v", err)
		return nil, chat.ErrAssistantUnavailable
	}

	return &chat.QuickQueryResponse{
		Response: result.Content,
		Model:    result.Model,
	}, nil
}

func (s *chatService) DescribeMeal(ctx context.Context, base64Image string) (*chat.DescribeMealResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.gemini == nil {
		return nil, chat.ErrAssistantUnavailable
	}

	description, err := s.gemini.AnalyzeImage(ctx, base64Image, describeMealPrompt)
	if err != nil {
		s.log.WithField("request_id", requestID).Errorf("Meal description failed: %v", err)
		return nil, chat.ErrInvalidImage
	}

	return &chat.DescribeMealResponse{Description: description}, nil
}

// ResetSession drops a session's stored conversation history. Without a
// session store there is nothing to forget.
func (s *chatService) ResetSession(ctx context.Context, sessionID string) error {
	if s.redis == nil {
		return nil
	}

	return s.redis.DeleteConversation(ctx, sessionID)
}

// loadHistory is best effort: a broken session store degrades the chat to
// stateless, it never fails the request.
func (s *chatService) loadHistory(ctx context.Context, requestID string, sessionID string) []chatGPT.ConversationMessage {
	if s.redis == nil {
		return nil
	}

	history, err := s.redis.GetConversation(ctx, sessionID)
	if err != nil {
		s.log.WithField("request_id", requestID).Warnf("Failed to load conversation history: %v", err)
		return nil
	}

	return history
}
