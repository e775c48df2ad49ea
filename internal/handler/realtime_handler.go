package handler

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"policyai-be/internal/pkg/logger"
	"policyai-be/internal/service"
	internalWS "policyai-be/internal/websocket"
)

// RealtimeHandler upgrades chat listeners onto the hub. The handshake
// authenticates the JWT and re-checks document access before any frame
// flows; a connection is never granted on the client's say-so.
type RealtimeHandler struct {
	chatService service.IChatService
	hub         *internalWS.Hub
	logger      logger.ILogger
}

func NewRealtimeHandler(chatService service.IChatService, hub *internalWS.Hub, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		chatService: chatService,
		hub:         hub,
		logger:      log,
	}
}

func (h *RealtimeHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a ws handshake, so the token rides
	// the query string; tooling may still use the Authorization header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("RealtimeHandler", "Invalid token in ws handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	sessionID, err := uuid.Parse(c.Params("documentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
	}

	access, err := h.chatService.CheckAccess(c.UserContext(), userID, sessionID)
	if err != nil {
		return err
	}
	if !access.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("RealtimeHandler", "Starting chat session stream", map[string]interface{}{
				"session_id": sessionID,
				"user_id":    userID,
			})
			internalWS.ServeWs(h.hub, conn, sessionID, userID)
			h.logger.Info("RealtimeHandler", "Chat session stream ended", map[string]interface{}{
				"session_id": sessionID,
				"user_id":    userID,
			})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *RealtimeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat/:documentId", h.ServeWs)
}
