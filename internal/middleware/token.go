package middleware

import (
	"NutriVisionAI/internal/entity"
	jwtPkg "NutriVisionAI/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"os"
	"strings"
)

const (
	ServiceTokenSecret = "SERVICE_TOKEN_SECRET"
)

type tokenMiddleware struct {
}

func newTokenMiddleware() *tokenMiddleware {
	return &tokenMiddleware{}
}

// NewTokenMiddleware verifies internal service tokens on protected routes.
// When SERVICE_TOKEN_SECRET is unset the deployment runs open (behind the
// gateway) and the middleware passes through.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	if os.Getenv(ServiceTokenSecret) == "" {
		return ctx.Next()
	}

	authHeader := ctx.Get("Authorization")

	if authHeader == "" {
		m.log.WithFields(logrus.Fields{
			"path":  ctx.Path(),
			"error": "Authorization header is missing",
		}).Warn("Authorization header check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, service token invalid or expired",
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		m.log.WithFields(logrus.Fields{
			"error": "Authorization header format is invalid",
		}).Warn("Authorization header check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, service token invalid or expired",
		})
	}

	serviceToken, err := jwtPkg.VerifyTokenHeader(ctx, ServiceTokenSecret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, service token invalid or expired",
		})
	}

	claims, ok := serviceToken.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(logrus.Fields{
			"error": "Invalid token claims",
		}).Warn("Token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, service token invalid or expired",
		})
	}

	serviceName, ok := claims["service"].(string)
	if !ok || serviceName == "" {
		m.log.WithFields(logrus.Fields{
			"error": "Token claims are missing required fields",
		}).Warn("Token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, service token invalid or expired",
		})
	}

	scope, _ := claims["scope"].(string)
	identity := entity.ServiceIdentity{
		Service: serviceName,
		Scope:   scope,
	}
	ctx.Locals("service", identity)

	return ctx.Next()
}
