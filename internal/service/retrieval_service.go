package service

import (
	"context"
	"strings"
	"time"

	"evidence-engine-be/internal/dto"
	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/pkg/logger"
	"evidence-engine-be/internal/pkg/serverutils"
	"evidence-engine-be/internal/repository/contract"
	"evidence-engine-be/internal/repository/specification"
	"evidence-engine-be/internal/repository/unitofwork"
	"evidence-engine-be/pkg/retrieval"

	"github.com/google/uuid"
)

const (
	defaultK = 8

	traceWriteTimeout = 10 * time.Second
)

type IRetrievalService interface {
	Retrieve(ctx context.Context, req *dto.RetrieveRequest) (*dto.RetrieveResponse, error)
	ListTraces(ctx context.Context, workspaceId uuid.UUID, limit, offset int) (*dto.ListTracesResponse, error)
	ShowTrace(ctx context.Context, workspaceId uuid.UUID, requestId uuid.UUID) (*dto.ShowTraceResponse, error)
}

type retrievalService struct {
	uowFactory   unitofwork.RepositoryFactory
	searcher     *retrieval.Searcher
	defaultAlpha float64
	logger       logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	searcher *retrieval.Searcher,
	defaultAlpha float64,
	log logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		uowFactory:   uowFactory,
		searcher:     searcher,
		defaultAlpha: defaultAlpha,
		logger:       log,
	}
}

// lexicalIndexAdapter exposes the chunk repository's FTS query as a
// retrieval.LexicalIndex.
type lexicalIndexAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLexicalIndexAdapter(uowFactory unitofwork.RepositoryFactory) retrieval.LexicalIndex {
	return &lexicalIndexAdapter{uowFactory: uowFactory}
}

func (a *lexicalIndexAdapter) Search(ctx context.Context, workspaceID uuid.UUID, query string, f retrieval.Filters) ([]retrieval.Candidate, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ChunkRepository().SearchLexical(ctx, query, contract.SearchFilter{
		WorkspaceId: workspaceID,
		SourceTypes: f.SourceTypes,
		Start:       f.Start,
		End:         f.End,
		Limit:       f.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toCandidates(rows), nil
}

// vectorIndexAdapter exposes the embedding repository's similarity query as
// a retrieval.VectorIndex.
type vectorIndexAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewVectorIndexAdapter(uowFactory unitofwork.RepositoryFactory) retrieval.VectorIndex {
	return &vectorIndexAdapter{uowFactory: uowFactory}
}

func (a *vectorIndexAdapter) Search(ctx context.Context, workspaceID uuid.UUID, vector []float32, model string, f retrieval.Filters) ([]retrieval.Candidate, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ChunkEmbeddingRepository().SearchSimilar(ctx, vector, model, contract.SearchFilter{
		WorkspaceId: workspaceID,
		SourceTypes: f.SourceTypes,
		Start:       f.Start,
		End:         f.End,
		Limit:       f.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toCandidates(rows), nil
}

func toCandidates(rows []*contract.ChunkCandidate) []retrieval.Candidate {
	out := make([]retrieval.Candidate, len(rows))
	for i, r := range rows {
		out[i] = retrieval.Candidate{
			ChunkID:       r.ChunkId,
			DocumentID:    r.DocumentId,
			SourceID:      r.SourceId,
			DocumentTitle: r.DocumentTitle,
			ChunkIndex:    r.ChunkIndex,
			Snippet:       r.Snippet,
			Meta:          r.Meta,
			Score:         r.Score,
		}
	}
	return out
}

// parseTimeframe resolves either a preset (7d/30d/90d) or a custom
// start_date/end_date pair (YYYY-MM-DD, end inclusive to end of day) into
// UTC bounds plus the JSON blob recorded on the trace.
func parseTimeframe(preset, startDate, endDate string) (map[string]interface{}, *time.Time, *time.Time, error) {
	now := time.Now().UTC()

	preset = strings.ToLower(strings.TrimSpace(preset))
	if preset != "" {
		var days int
		switch preset {
		case "7d":
			days = 7
		case "30d":
			days = 30
		case "90d":
			days = 90
		default:
			return nil, nil, nil, serverutils.NewBadRequestError("Invalid timeframe (use 7d, 30d, 90d or omit)")
		}
		start := now.AddDate(0, 0, -days)
		return map[string]interface{}{"preset": preset}, &start, &now, nil
	}

	if startDate == "" && endDate == "" {
		return map[string]interface{}{}, nil, nil, nil
	}

	tf := map[string]interface{}{"preset": "custom"}
	var start, end *time.Time

	if startDate != "" {
		t, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
		if err != nil {
			return nil, nil, nil, serverutils.NewBadRequestError("Invalid date format (use YYYY-MM-DD)")
		}
		start = &t
		tf["start_date"] = startDate
	}
	if endDate != "" {
		t, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
		if err != nil {
			return nil, nil, nil, serverutils.NewBadRequestError("Invalid date format (use YYYY-MM-DD)")
		}
		// End of day inclusive.
		t = t.AddDate(0, 0, 1).Add(-time.Second)
		end = &t
		tf["end_date"] = endDate
	}

	return tf, start, end, nil
}

func parseSourceTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *retrievalService) Retrieve(ctx context.Context, req *dto.RetrieveRequest) (*dto.RetrieveResponse, error) {
	timeframe, start, end, err := parseTimeframe(req.Timeframe, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	k := req.K
	if k == 0 {
		k = defaultK
	}
	alpha := s.defaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	k = retrieval.ClampK(k)
	alpha = retrieval.ClampAlpha(alpha)

	sourceTypes := parseSourceTypes(req.SourceTypes)

	result, err := s.searcher.Search(ctx, req.WorkspaceId, retrieval.Params{
		Query:       req.Query,
		K:           k,
		Alpha:       alpha,
		SourceTypes: sourceTypes,
		Start:       start,
		End:         end,
	})
	if err != nil {
		return nil, err
	}

	requestId := uuid.New()
	s.recordTrace(requestId, req, k, alpha, sourceTypes, timeframe, result)

	items := make([]dto.RetrievedItem, len(result.Items))
	for i, it := range result.Items {
		items[i] = dto.RetrievedItem{
			ChunkId:       it.ChunkID,
			DocumentId:    it.DocumentID,
			SourceId:      it.SourceID,
			DocumentTitle: it.DocumentTitle,
			ChunkIndex:    it.ChunkIndex,
			Snippet:       it.Snippet,
			Meta:          it.Meta,
			ScoreLexical:  it.ScoreLexical,
			ScoreVector:   it.ScoreVector,
			ScoreHybrid:   it.ScoreHybrid,
		}
	}

	return &dto.RetrieveResponse{
		RequestId: requestId,
		Query:     strings.TrimSpace(req.Query),
		K:         k,
		Alpha:     alpha,
		Degraded:  result.Degraded,
		Items:     items,
	}, nil
}

// recordTrace persists the audit record off the request path. A failed
// write is logged, never surfaced: the ranking already happened and the
// caller keeps their result.
func (s *retrievalService) recordTrace(
	requestId uuid.UUID,
	req *dto.RetrieveRequest,
	k int,
	alpha float64,
	sourceTypes []string,
	timeframe map[string]interface{},
	result *retrieval.Result,
) {
	request := &entity.RetrievalRequest{
		Id:              requestId,
		WorkspaceId:     req.WorkspaceId,
		CreatedByUserId: req.UserId,
		Query:           strings.TrimSpace(req.Query),
		K:               k,
		Alpha:           alpha,
		SourceTypes:     strings.Join(sourceTypes, ","),
		Timeframe:       timeframe,
		CreatedAt:       time.Now(),
	}

	items := make([]*entity.RetrievalRequestItem, len(result.Items))
	for i, it := range result.Items {
		chunkId := it.ChunkID
		documentId := it.DocumentID
		sourceId := it.SourceID
		items[i] = &entity.RetrievalRequestItem{
			Id:           uuid.New(),
			RequestId:    requestId,
			Rank:         i + 1,
			ChunkId:      &chunkId,
			DocumentId:   &documentId,
			SourceId:     &sourceId,
			Snippet:      it.Snippet,
			Meta:         it.Meta,
			ScoreLexical: it.ScoreLexical,
			ScoreVector:  it.ScoreVector,
			ScoreHybrid:  it.ScoreHybrid,
			CreatedAt:    time.Now(),
		}
	}

	go func() {
		// Detached from the request context on purpose: the trace write
		// must not be cancelled by the response going out.
		ctx, cancel := context.WithTimeout(context.Background(), traceWriteTimeout)
		defer cancel()

		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			s.logger.Error("retrieval_service", "Failed to begin trace transaction", map[string]interface{}{
				"request_id": requestId.String(),
				"error":      err.Error(),
			})
			return
		}
		defer uow.Rollback()

		if err := uow.RetrievalRequestRepository().CreateRequest(ctx, request); err != nil {
			s.logger.Error("retrieval_service", "Failed to write retrieval trace", map[string]interface{}{
				"request_id": requestId.String(),
				"error":      err.Error(),
			})
			return
		}
		if err := uow.RetrievalRequestRepository().CreateItemsBulk(ctx, items); err != nil {
			s.logger.Error("retrieval_service", "Failed to write retrieval trace items", map[string]interface{}{
				"request_id": requestId.String(),
				"error":      err.Error(),
			})
			return
		}
		if err := uow.Commit(); err != nil {
			s.logger.Error("retrieval_service", "Failed to commit retrieval trace", map[string]interface{}{
				"request_id": requestId.String(),
				"error":      err.Error(),
			})
		}
	}()
}

func (s *retrievalService) ListTraces(ctx context.Context, workspaceId uuid.UUID, limit, offset int) (*dto.ListTracesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	total, err := uow.RetrievalRequestRepository().CountRequests(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return nil, err
	}

	requests, err := uow.RetrievalRequestRepository().FindRequests(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.TraceRequestSummary, len(requests))
	for i, r := range requests {
		summaries[i] = traceSummary(r)
	}

	return &dto.ListTracesResponse{
		Requests: summaries,
		Total:    total,
	}, nil
}

func (s *retrievalService) ShowTrace(ctx context.Context, workspaceId uuid.UUID, requestId uuid.UUID) (*dto.ShowTraceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.RetrievalRequestRepository().FindRequestOne(ctx,
		specification.ByID{ID: requestId},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, nil
	}

	items, err := uow.RetrievalRequestRepository().FindItemsByRequestId(ctx, requestId)
	if err != nil {
		return nil, err
	}

	traceItems := make([]dto.TraceItem, len(items))
	for i, it := range items {
		traceItems[i] = dto.TraceItem{
			Rank:         it.Rank,
			ChunkId:      it.ChunkId,
			DocumentId:   it.DocumentId,
			SourceId:     it.SourceId,
			Snippet:      it.Snippet,
			Meta:         it.Meta,
			ScoreLexical: it.ScoreLexical,
			ScoreVector:  it.ScoreVector,
			ScoreHybrid:  it.ScoreHybrid,
		}
	}

	return &dto.ShowTraceResponse{
		Request: traceSummary(request),
		Items:   traceItems,
	}, nil
}

func traceSummary(r *entity.RetrievalRequest) dto.TraceRequestSummary {
	return dto.TraceRequestSummary{
		Id:          r.Id,
		Query:       r.Query,
		K:           r.K,
		Alpha:       r.Alpha,
		SourceTypes: r.SourceTypes,
		CreatedAt:   r.CreatedAt,
	}
}
