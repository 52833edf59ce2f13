package chatService

import (
	"NutriVisionAI/internal/api/chat"
	chatGPT "NutriVisionAI/pkg/openai"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeChatGPT struct {
	result     *chatGPT.ChatResult
	jsonResult *chatGPT.ChatResult
	err        error

	gotSystemPrompt string
	gotHistory      []chatGPT.ConversationMessage
	gotUserMessage  string
}

func (f *fakeChatGPT) ProcessConversation(ctx context.Context, systemPrompt string, history []chatGPT.ConversationMessage, userMessage string) (*chatGPT.ChatResult, error) {
	f.gotSystemPrompt = systemPrompt
	f.gotHistory = history
	f.gotUserMessage = userMessage
	return f.result, f.err
}

func (f *fakeChatGPT) CreateJSONCompletion(ctx context.Context, systemPrompt string, userPrompt string) (*chatGPT.ChatResult, error) {
	f.gotSystemPrompt = systemPrompt
	f.gotUserMessage = userPrompt
	return f.jsonResult, f.err
}

type fakeSessionStore struct {
	conversations map[string][]chatGPT.ConversationMessage
	getErr        error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{conversations: make(map[string][]chatGPT.ConversationMessage)}
}

func (f *fakeSessionStore) GetConversation(ctx context.Context, sessionID string) ([]chatGPT.ConversationMessage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.conversations[sessionID], nil
}

func (f *fakeSessionStore) SaveConversation(ctx context.Context, sessionID string, history []chatGPT.ConversationMessage, expiration time.Duration) error {
	f.conversations[sessionID] = history
	return nil
}

func (f *fakeSessionStore) DeleteConversation(ctx context.Context, sessionID string) error {
	delete(f.conversations, sessionID)
	return nil
}

type fakeUtils struct{}

func (fakeUtils) NewULIDFromTimestamp(t time.Time) (string, error) {
	return "01TESTULID0000000000000000", nil
}
func (fakeUtils) ValidateImageFile(file *multipart.FileHeader) error      { return nil }
func (fakeUtils) ConvertFileToBase64(file multipart.File) (string, error) { return "", nil }
func (fakeUtils) ReadFileBytes(file multipart.File) ([]byte, error)       { return nil, nil }

func newTestChatService(gpt *fakeChatGPT, store *fakeSessionStore) *chatService {
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := &chatService{
		log:   log,
		utils: fakeUtils{},
	}
	if gpt != nil {
		s.chatGPT = gpt
	}
	if store != nil {
		s.redis = store
	}
	return s
}

func TestProcessChat(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a session and persists the exchange", func(t *testing.T) {
		gpt := &fakeChatGPT{result: &chatGPT.ChatResult{Content: "Eat more fiber.", Model: "gpt-4", TokensUsed: 42}}
		store := newFakeSessionStore()
		s := newTestChatService(gpt, store)

		got, err := s.ProcessChat(ctx, chat.ChatRequest{Message: "What should I eat?"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.SessionID == "" {
			t.Fatal("expected a generated session id")
		}
		if got.Response != "Eat more fiber." || got.TokensUsed != 42 {
			t.Fatalf("unexpected response: %+v", got)
		}

		saved := store.conversations[got.SessionID]
		if len(saved) != 2 || saved[0].Role != "user" || saved[1].Role != "assistant" {
			t.Fatalf("unexpected saved history: %+v", saved)
		}
	})

	t.Run("replays existing history to the model", func(t *testing.T) {
		gpt := &fakeChatGPT{result: &chatGPT.ChatResult{Content: "ok"}}
		store := newFakeSessionStore()
		store.conversations["s1"] = []chatGPT.ConversationMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		}
		s := newTestChatService(gpt, store)

		if _, err := s.ProcessChat(ctx, chat.ChatRequest{Message: "next", SessionID: "s1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(gpt.gotHistory) != 2 {
			t.Fatalf("expected 2 history messages, got %d", len(gpt.gotHistory))
		}
	})

	t.Run("caps stored history length", func(t *testing.T) {
		gpt := &fakeChatGPT{result: &chatGPT.ChatResult{Content: "ok"}}
		store := newFakeSessionStore()
		long := make([]chatGPT.ConversationMessage, maxHistoryLength)
		for i := range long {
			long[i] = chatGPT.ConversationMessage{Role: "user", Content: "x"}
		}
		store.conversations["s1"] = long
		s := newTestChatService(gpt, store)

		if _, err := s.ProcessChat(ctx, chat.ChatRequest{Message: "next", SessionID: "s1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := len(store.conversations["s1"]); got != maxHistoryLength {
			t.Fatalf("expected history capped at %d, got %d", maxHistoryLength, got)
		}
	})

	t.Run("broken session store degrades to stateless", func(t *testing.T) {
		gpt := &fakeChatGPT{result: &chatGPT.ChatResult{Content: "ok"}}
		store := newFakeSessionStore()
		store.getErr = errors.New("connection refused")
		s := newTestChatService(gpt, store)

		if _, err := s.ProcessChat(ctx, chat.ChatRequest{Message: "hi", SessionID: "s1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(gpt.gotHistory) != 0 {
			t.Fatalf("expected no history, got %+v", gpt.gotHistory)
		}
	})

	t.Run("folds the user profile into the system prompt", func(t *testing.T) {
		gpt := &fakeChatGPT{result: &chatGPT.ChatResult{Content: "ok"}}
		s := newTestChatService(gpt, newFakeSessionStore())

		_, err := s.ProcessChat(ctx, chat.ChatRequest{
			Message:     "hi",
			UserContext: &chat.UserContext{Goal: "lose weight"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gpt.gotSystemPrompt == nutritionistBasePrompt {
			t.Fatal("expected the profile in the system prompt")
		}
	})

	t.Run("fails when the assistant is not wired", func(t *testing.T) {
		s := newTestChatService(nil, newFakeSessionStore())

		if _, err := s.ProcessChat(ctx, chat.ChatRequest{Message: "hi"}); !errors.Is(err, chat.ErrAssistantUnavailable) {
			t.Fatalf("expected ErrAssistantUnavailable, got %v", err)
		}
	})

	t.Run("maps provider failures to unavailable", func(t *testing.T) {
		gpt := &fakeChatGPT{err: errors.New("rate limited")}
		s := newTestChatService(gpt, newFakeSessionStore())

		if _, err := s.ProcessChat(ctx, chat.ChatRequest{Message: "hi"}); !errors.Is(err, chat.ErrAssistantUnavailable) {
			t.Fatalf("expected ErrAssistantUnavailable, got %v", err)
		}
	})
}

func TestGeneratePlans(t *testing.T) {
	ctx := context.Background()

	t.Run("meal plan returns the extracted JSON", func(t *testing.T) {
		gpt := &fakeChatGPT{jsonResult: &chatGPT.ChatResult{Content: `{"days":[]}`, Model: "gpt-4"}}
		s := newTestChatService(gpt, nil)

		got, err := s.GenerateMealPlan(ctx, chat.MealPlanRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if string(got.Plan) != `{"days":[]}` || got.Model != "gpt-4" {
			t.Fatalf("unexpected plan: %+v", got)
		}
	})

	t.Run("defaults are applied to the prompt", func(t *testing.T) {
		gpt := &fakeChatGPT{jsonResult: &chatGPT.ChatResult{Content: `{}`}}
		s := newTestChatService(gpt, nil)

		if _, err := s.GenerateMealPlan(ctx, chat.MealPlanRequest{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "7-day meal plan with 3 meals"
		if !strings.Contains(gpt.gotUserMessage, want) {
			t.Fatalf("prompt missing %q:\n%s", want, gpt.gotUserMessage)
		}
	})

	t.Run("malformed model output fails cleanly", func(t *testing.T) {
		gpt := &fakeChatGPT{jsonResult: &chatGPT.ChatResult{Content: "not json at all"}}
		s := newTestChatService(gpt, nil)

		if _, err := s.GenerateQuickMeal(ctx, chat.QuickMealRequest{Ingredients: []string{"eggs"}}); !errors.Is(err, chat.ErrMalformedPlan) {
			t.Fatalf("expected ErrMalformedPlan, got %v", err)
		}
	})

	t.Run("quick meal prompt lists the ingredients", func(t *testing.T) {
		gpt := &fakeChatGPT{jsonResult: &chatGPT.ChatResult{Content: `{}`}}
		s := newTestChatService(gpt, nil)

		if _, err := s.GenerateQuickMeal(ctx, chat.QuickMealRequest{Ingredients: []string{"eggs", "rice"}, MaxMinutes: 20}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(gpt.gotUserMessage, "eggs, rice") || !strings.Contains(gpt.gotUserMessage, "20 minutes") {
			t.Fatalf("unexpected prompt:\n%s", gpt.gotUserMessage)
		}
	})
}

func TestResetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("drops the stored conversation history", func(t *testing.T) {
		store := newFakeSessionStore()
		store.conversations["s1"] = []chatGPT.ConversationMessage{
			{Role: "user", Content: "hi"},
		}
		s := newTestChatService(nil, store)

		if err := s.ResetSession(ctx, "s1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := store.conversations["s1"]; ok {
			t.Fatal("expected the session history to be deleted")
		}
	})

	t.Run("is a no-op without a session store", func(t *testing.T) {
		s := newTestChatService(nil, nil)

		if err := s.ResetSession(ctx, "s1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
