package controller

import (
	"strconv"

	"evidence-engine-be/internal/dto"
	"evidence-engine-be/internal/pkg/serverutils"
	"evidence-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRetrievalController interface {
	RegisterRoutes(r fiber.Router)
	Retrieve(ctx *fiber.Ctx) error
	ListTraces(ctx *fiber.Ctx) error
	ShowTrace(ctx *fiber.Ctx) error
}

type retrievalController struct {
	retrievalService service.IRetrievalService
}

func NewRetrievalController(retrievalService service.IRetrievalService) IRetrievalController {
	return &retrievalController{
		retrievalService: retrievalService,
	}
}

func (c *retrievalController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/retrieval/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("workspaces/:workspaceId/retrieve", c.Retrieve)
	h.Get("workspaces/:workspaceId/requests", c.ListTraces)
	h.Get("workspaces/:workspaceId/requests/:requestId", c.ShowTrace)
}

func (c *retrievalController) Retrieve(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid workspace id")
	}

	req := dto.RetrieveRequest{
		WorkspaceId: workspaceId,
		UserId:      userId,
		Query:       ctx.Query("q"),
		K:           ctx.QueryInt("k", 0),
		SourceTypes: ctx.Query("source_types"),
		Timeframe:   ctx.Query("timeframe"),
		StartDate:   ctx.Query("start_date"),
		EndDate:     ctx.Query("end_date"),
	}

	if raw := ctx.Query("alpha"); raw != "" {
		alpha, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return serverutils.NewBadRequestError("Invalid alpha (must be a number)")
		}
		req.Alpha = &alpha
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.retrievalService.Retrieve(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success retrieve", res))
}

func (c *retrievalController) ListTraces(ctx *fiber.Ctx) error {
	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid workspace id")
	}

	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.retrievalService.ListTraces(ctx.Context(), workspaceId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list retrieval requests", res))
}

func (c *retrievalController) ShowTrace(ctx *fiber.Ctx) error {
	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid workspace id")
	}
	requestId, err := uuid.Parse(ctx.Params("requestId"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid request id")
	}

	res, err := c.retrievalService.ShowTrace(ctx.Context(), workspaceId, requestId)
	if err != nil {
		return err
	}
	if res == nil {
		return serverutils.NewNotFoundError("Retrieval request not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show retrieval request", res))
}
