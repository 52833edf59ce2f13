package config

import (
	"NutriVisionAI/database/postgres"
	analysisHandler "NutriVisionAI/internal/api/analysis/handler"
	analysisService "NutriVisionAI/internal/api/analysis/service"
	chatHandler "NutriVisionAI/internal/api/chat/handler"
	chatService "NutriVisionAI/internal/api/chat/service"
	nutritionHandler "NutriVisionAI/internal/api/nutrition/handler"
	nutritionRepository "NutriVisionAI/internal/api/nutrition/repository"
	nutritionService "NutriVisionAI/internal/api/nutrition/service"
	"NutriVisionAI/internal/middleware"
	depthPkg "NutriVisionAI/pkg/depth"
	"NutriVisionAI/pkg/detector"
	"NutriVisionAI/pkg/gemini"
	chatGPT "NutriVisionAI/pkg/openai"
	"NutriVisionAI/pkg/redis"
	"NutriVisionAI/pkg/s3"
	"NutriVisionAI/pkg/utils"
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	geminiClient   gemini.IGemini
	chatGPTClient  chatGPT.IChatGPT
	s3Client       s3.ItfS3
	detectorClient detector.IDetector
	depthClient    depthPkg.IDepth
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase is optional: without DB_HOST the nutrition domain serves its
// static reference data only.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if os.Getenv("DB_HOST") == "" {
			if s.log != nil {
				s.log.Warn("DB_HOST not set, running without a database")
			}
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithS3Client is optional: without AWS_BUCKET_NAME analyzed images are not
// archived.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		if os.Getenv("AWS_BUCKET_NAME") == "" {
			if s.log != nil {
				s.log.Warn("AWS_BUCKET_NAME not set, image archival disabled")
			}
			return nil
		}

		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

// WithGeminiClient is optional: without GEMINI_API_KEY the describe-meal
// endpoint reports the assistant as unavailable.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("GEMINI_API_KEY") == "" {
			if s.log != nil {
				s.log.Warn("GEMINI_API_KEY not set, meal description disabled")
			}
			return nil
		}

		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithChatGPT(client chatGPT.IChatGPT) ServerOption {
	return func(s *Server) error {
		s.chatGPTClient = client
		return nil
	}
}

func WithDetector(client detector.IDetector) ServerOption {
	return func(s *Server) error {
		s.detectorClient = client
		return nil
	}
}

// WithDepthProvider is optional: without AI_DEPTH_ESTIMATION_URL portion
// estimates use the geometric signal only.
func WithDepthProvider() ServerOption {
	return func(s *Server) error {
		client, err := depthPkg.New()
		if err != nil {
			if s.log != nil {
				s.log.Infof("Depth provider not configured: %v", err)
			}
			return nil
		}
		s.depthClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Analysis Domain
	analysisServices := analysisService.NewAnalysisService(s.log, s.detectorClient, s.depthClient)
	analysisHandlers := analysisHandler.New(s.log, s.validator, s.middleware, analysisServices, s.utils, s.s3Client)

	// Chat Domain
	chatServices := chatService.NewChatService(s.log, s.chatGPTClient, s.redisServer, s.geminiClient, s.utils)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices, s.utils)

	// Nutrition Domain
	var nutritionRepo nutritionRepository.Repository
	if s.db != nil {
		nutritionRepo = nutritionRepository.New(s.db, s.log)
	}
	nutritionServices := nutritionService.NewNutritionService(s.log, nutritionRepo)
	nutritionHandlers := nutritionHandler.New(s.log, s.validator, s.middleware, nutritionServices)

	if s.db != nil {
		if err := nutritionServices.SeedReference(context.Background()); err != nil {
			s.log.Warnf("Failed to seed nutrition reference data: %v", err)
		}
	}

	s.setupHealthCheck()
	s.handlers = append(s.handlers, analysisHandlers, chatHandlers, nutritionHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	router := s.engine.Group("/api/v1")
	router.Use(s.middleware.NewRateLimiter)
	router.Use(s.middleware.NewTokenMiddleware)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.detectorClient != nil {
			s.detectorClient.Close()
		}
		if s.depthClient != nil {
			s.depthClient.Close()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
