package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"policyai-be/internal/dto"
	"policyai-be/internal/pkg/serverutils"
	"policyai-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	CheckAccess(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("send", c.Send)
	h.Get(":documentId/history", c.History)
	h.Delete(":documentId/history", c.Clear)
	h.Get(":documentId/access", c.CheckAccess)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Send(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	docId, _ := uuid.Parse(ctx.Params("documentId"))

	res, err := c.chatService.History(ctx.Context(), userId, docId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	docId, _ := uuid.Parse(ctx.Params("documentId"))

	if err := c.chatService.Clear(ctx.Context(), userId, docId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear chat history", nil))
}

func (c *chatController) CheckAccess(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	docId, _ := uuid.Parse(ctx.Params("documentId"))

	res, err := c.chatService.CheckAccess(ctx.Context(), userId, docId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check access", res))
}
