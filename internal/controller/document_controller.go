package controller

import (
	"evidence-engine-be/internal/dto"
	"evidence-engine-be/internal/pkg/serverutils"
	"evidence-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Embed(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/retrieval/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("workspaces/:workspaceId/documents", c.Ingest)
	h.Get("workspaces/:workspaceId/documents", c.List)
	h.Get("workspaces/:workspaceId/documents/:id", c.Show)
	h.Post("documents/:id/embed", c.Embed)
}

func (c *documentController) Ingest(ctx *fiber.Ctx) error {
	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid workspace id")
	}

	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}
	req.WorkspaceId = workspaceId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid workspace id")
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid document id")
	}

	res, err := c.documentService.Show(ctx.Context(), workspaceId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return serverutils.NewNotFoundError("Document not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid workspace id")
	}

	sourceType := ctx.Query("source_type", "")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.documentService.List(ctx.Context(), workspaceId, sourceType, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Embed(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid document id")
	}

	req := dto.EmbedDocumentRequest{
		Id:    id,
		Force: ctx.QueryBool("force", false),
	}

	res, err := c.documentService.Embed(ctx.Context(), &req)
	if err != nil {
		return err
	}
	if res == nil {
		return serverutils.NewNotFoundError("Document not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue embed job", res))
}
