package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	ctx.Locals("user_id", claims["user_id"])
	return ctx.Next()
}

// ServiceTokenMiddleware guards callback endpoints hit by the external
// workflow system. The workflow authenticates with a shared credential,
// not a user JWT.
func ServiceTokenMiddleware(serviceToken string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if serviceToken == "" {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Service token not configured"})
		}
		if ctx.Get("X-Service-Token") != serviceToken {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid service token"})
		}
		return ctx.Next()
	}
}
