package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"policyai-be/internal/dto"
	"policyai-be/internal/pkg/serverutils"
	"policyai-be/internal/service"
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	CreateBatch(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sourceController struct {
	sourceService service.ISourceService
}

func NewSourceController(sourceService service.ISourceService) ISourceController {
	return &sourceController{
		sourceService: sourceService,
	}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/source/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.CreateBatch)
	h.Get("document/:documentId", c.List)
	h.Delete(":id", c.Delete)
}

func (c *sourceController) CreateBatch(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateSourcesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sourceService.CreateBatch(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Sources queued for processing", res))
}

func (c *sourceController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	docId, _ := uuid.Parse(ctx.Params("documentId"))

	res, err := c.sourceService.List(ctx.Context(), userId, docId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sources", res))
}

func (c *sourceController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.sourceService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete source", nil))
}
