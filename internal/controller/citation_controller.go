package controller

import (
	"evidence-engine-be/internal/dto"
	"evidence-engine-be/internal/pkg/serverutils"
	"evidence-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICitationController interface {
	RegisterRoutes(r fiber.Router)
	BuildPack(ctx *fiber.Ctx) error
	EnforceGrounding(ctx *fiber.Ctx) error
}

type citationController struct {
	citationService service.ICitationService
}

func NewCitationController(citationService service.ICitationService) ICitationController {
	return &citationController{
		citationService: citationService,
	}
}

func (c *citationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/citation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("pack", c.BuildPack)
	h.Post("enforce", c.EnforceGrounding)
}

func (c *citationController) BuildPack(ctx *fiber.Ctx) error {
	var req dto.BuildPackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.citationService.BuildPack(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build citation pack", res))
}

func (c *citationController) EnforceGrounding(ctx *fiber.Ctx) error {
	var req dto.EnforceGroundingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.citationService.EnforceGrounding(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success enforce grounding", res))
}
