package controller

import (
	"github.com/gofiber/fiber/v2"

	"policyai-be/internal/dto"
	"policyai-be/internal/pkg/serverutils"
	"policyai-be/internal/service"
)

// ICallbackController receives the asynchronous callbacks of the external
// workflow system. These routes authenticate with the shared service
// token, not a user JWT.
type ICallbackController interface {
	RegisterRoutes(r fiber.Router)
	SourceProcessed(ctx *fiber.Ctx) error
	ChatReply(ctx *fiber.Ctx) error
	GenerationFinished(ctx *fiber.Ctx) error
}

type callbackController struct {
	sourceService   service.ISourceService
	chatService     service.IChatService
	documentService service.IDocumentService
	serviceToken    string
}

func NewCallbackController(
	sourceService service.ISourceService,
	chatService service.IChatService,
	documentService service.IDocumentService,
	serviceToken string,
) ICallbackController {
	return &callbackController{
		sourceService:   sourceService,
		chatService:     chatService,
		documentService: documentService,
		serviceToken:    serviceToken,
	}
}

func (c *callbackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/callback/v1")
	h.Use(serverutils.ServiceTokenMiddleware(c.serviceToken))
	h.Post("source", c.SourceProcessed)
	h.Post("chat", c.ChatReply)
	h.Post("generation", c.GenerationFinished)
}

func (c *callbackController) SourceProcessed(ctx *fiber.Ctx) error {
	var req dto.SourceCallbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sourceService.HandleCallback(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Callback accepted", nil))
}

func (c *callbackController) ChatReply(ctx *fiber.Ctx) error {
	var req dto.ChatCallbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.HandleCallback(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Callback accepted", nil))
}

func (c *callbackController) GenerationFinished(ctx *fiber.Ctx) error {
	var req dto.GenerationCallbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.documentService.HandleGenerationCallback(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Callback accepted", nil))
}
