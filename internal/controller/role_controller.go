package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"policyai-be/internal/dto"
	"policyai-be/internal/pkg/serverutils"
	"policyai-be/internal/service"
)

type IRoleController interface {
	RegisterRoutes(r fiber.Router)
	Manage(ctx *fiber.Ctx) error
	Assign(ctx *fiber.Ctx) error
	Revoke(ctx *fiber.Ctx) error
	UserRoles(ctx *fiber.Ctx) error
}

type roleController struct {
	roleService service.IRoleService
}

func NewRoleController(roleService service.IRoleService) IRoleController {
	return &roleController{
		roleService: roleService,
	}
}

func (c *roleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/role/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("manage", c.Manage)
	h.Post("assign", c.Assign)
	h.Post("revoke", c.Revoke)
	h.Get("user/:userId", c.UserRoles)
}

// Manage is the combined endpoint: one body, an action switch. Assign
// and Revoke stay mounted for callers that prefer explicit routes.
func (c *roleController) Manage(ctx *fiber.Ctx) error {
	actorIdStr := ctx.Locals("user_id").(string)
	actorId, _ := uuid.Parse(actorIdStr)

	var req dto.ManageRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	var res *dto.RoleChangeResponse
	var err error
	if req.Action == "assign" {
		res, err = c.roleService.AssignRole(ctx.Context(), actorId, &dto.AssignRoleRequest{UserId: req.UserId, Role: req.Role})
	} else {
		res, err = c.roleService.RevokeRole(ctx.Context(), actorId, &dto.RevokeRoleRequest{UserId: req.UserId, Role: req.Role})
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *roleController) Assign(ctx *fiber.Ctx) error {
	actorIdStr := ctx.Locals("user_id").(string)
	actorId, _ := uuid.Parse(actorIdStr)

	var req dto.AssignRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.roleService.AssignRole(ctx.Context(), actorId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *roleController) Revoke(ctx *fiber.Ctx) error {
	actorIdStr := ctx.Locals("user_id").(string)
	actorId, _ := uuid.Parse(actorIdStr)

	var req dto.RevokeRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.roleService.RevokeRole(ctx.Context(), actorId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *roleController) UserRoles(ctx *fiber.Ctx) error {
	actorIdStr := ctx.Locals("user_id").(string)
	actorId, _ := uuid.Parse(actorIdStr)

	userId, _ := uuid.Parse(ctx.Params("userId"))

	res, err := c.roleService.GetUserRoles(ctx.Context(), actorId, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get user roles", res))
}
