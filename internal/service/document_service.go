package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"evidence-engine-be/internal/dto"
	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/pkg/logger"
	"evidence-engine-be/internal/repository/specification"
	"evidence-engine-be/internal/repository/unitofwork"
	"evidence-engine-be/pkg/chunker"
	"evidence-engine-be/pkg/events"
	pktNats "evidence-engine-be/pkg/nats"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	Show(ctx context.Context, workspaceId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, workspaceId uuid.UUID, sourceType string, limit, offset int) (*dto.ListDocumentsResponse, error)
	Embed(ctx context.Context, req *dto.EmbedDocumentRequest) (*dto.EmbedDocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	splitter         *chunker.Chunker
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	splitter *chunker.Chunker,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		splitter:         splitter,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// getOrCreateSource resolves the workspace's source record for a type,
// creating it on first ingest. Sources are keyed by (workspace, type).
func (s *documentService) getOrCreateSource(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId uuid.UUID, sourceType, name string) (*entity.Source, error) {
	src, err := uow.SourceRepository().FindOne(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.Filter("type", sourceType),
	)
	if err != nil {
		return nil, err
	}
	if src != nil {
		return src, nil
	}

	if name == "" {
		name = strings.ToUpper(sourceType[:1]) + sourceType[1:]
	}
	src = &entity.Source{
		Id:          uuid.New(),
		WorkspaceId: workspaceId,
		Type:        sourceType,
		Name:        name,
		Config:      map[string]interface{}{},
		CreatedAt:   time.Now(),
	}
	if err := uow.SourceRepository().Create(ctx, src); err != nil {
		return nil, err
	}
	return src, nil
}

func (s *documentService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sourceType := strings.ToLower(strings.TrimSpace(req.SourceType))

	src, err := s.getOrCreateSource(ctx, uow, req.WorkspaceId, sourceType, strings.TrimSpace(req.SourceName))
	if err != nil {
		return nil, err
	}

	// Same external id within the source means full replace, never a
	// partial update.
	var existing *entity.Document
	if req.ExternalId != nil && *req.ExternalId != "" {
		existing, err = uow.DocumentRepository().FindOne(ctx,
			specification.ByWorkspaceID{WorkspaceID: req.WorkspaceId},
			specification.BySourceID{SourceID: src.Id},
			specification.ByExternalID{ExternalID: *req.ExternalId},
		)
		if err != nil {
			return nil, err
		}
	}

	meta := req.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var doc *entity.Document
	replaced := false

	if existing != nil {
		now := time.Now()
		existing.Title = req.Title
		existing.RawText = req.Text
		existing.Meta = meta
		existing.UpdatedAt = &now
		if err := uow.DocumentRepository().Update(ctx, existing); err != nil {
			return nil, err
		}

		// Stale chunks and their embeddings go before the rebuild.
		if err := uow.ChunkEmbeddingRepository().DeleteByDocumentId(ctx, existing.Id); err != nil {
			return nil, err
		}
		if err := uow.ChunkRepository().DeleteByDocumentId(ctx, existing.Id); err != nil {
			return nil, err
		}

		doc = existing
		replaced = true
	} else {
		doc = &entity.Document{
			Id:          uuid.New(),
			WorkspaceId: req.WorkspaceId,
			SourceId:    src.Id,
			ExternalId:  req.ExternalId,
			Title:       req.Title,
			RawText:     req.Text,
			Meta:        meta,
			CreatedAt:   time.Now(),
		}
		if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
			return nil, err
		}
	}

	spans := s.splitter.Split(req.Text)
	chunks := make([]*entity.Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = &entity.Chunk{
			Id:          uuid.New(),
			DocumentId:  doc.Id,
			ChunkIndex:  i,
			Text:        span.Text,
			StartOffset: span.Start,
			EndOffset:   span.End,
			CreatedAt:   time.Now(),
		}
	}
	if err := uow.ChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishEmbedDocumentMessage{
		DocumentId: doc.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "DOCUMENT_INGESTED",
			Data: map[string]interface{}{
				"document_id":  doc.Id,
				"workspace_id": doc.WorkspaceId,
				"source_type":  sourceType,
				"chunk_count":  len(chunks),
				"replaced":     replaced,
			},
			OccurredAt: time.Now(),
		}
		// Auxiliary event, never fails the request.
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("document_service", "Failed to publish DOCUMENT_INGESTED event", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
		}
	}

	return &dto.IngestDocumentResponse{
		Id:         doc.Id,
		SourceId:   src.Id,
		ChunkCount: len(chunks),
		Replaced:   replaced,
	}, nil
}

func (s *documentService) Show(ctx context.Context, workspaceId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	src, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: doc.SourceId})
	if err != nil {
		return nil, err
	}
	sourceType := ""
	if src != nil {
		sourceType = src.Type
	}

	chunks, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: doc.Id},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return nil, err
	}

	chunkItems := make([]dto.ChunkItem, len(chunks))
	for i, c := range chunks {
		chunkItems[i] = dto.ChunkItem{
			Id:          c.Id,
			ChunkIndex:  c.ChunkIndex,
			Text:        c.Text,
			StartOffset: c.StartOffset,
			EndOffset:   c.EndOffset,
		}
	}

	return &dto.ShowDocumentResponse{
		Id:         doc.Id,
		SourceId:   doc.SourceId,
		SourceType: sourceType,
		ExternalId: doc.ExternalId,
		Title:      doc.Title,
		Meta:       doc.Meta,
		ChunkCount: len(chunkItems),
		Chunks:     chunkItems,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}

func (s *documentService) List(ctx context.Context, workspaceId uuid.UUID, sourceType string, limit, offset int) (*dto.ListDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	}

	sourceType = strings.ToLower(strings.TrimSpace(sourceType))
	if sourceType != "" {
		src, err := uow.SourceRepository().FindOne(ctx,
			specification.ByWorkspaceID{WorkspaceID: workspaceId},
			specification.Filter("type", sourceType),
		)
		if err != nil {
			return nil, err
		}
		if src == nil {
			return &dto.ListDocumentsResponse{Documents: []dto.ShowDocumentResponse{}}, nil
		}
		specs = append(specs, specification.BySourceID{SourceID: src.Id})
	}

	total, err := uow.DocumentRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)...)
	if err != nil {
		return nil, err
	}

	sourceTypes := make(map[uuid.UUID]string)
	response := make([]dto.ShowDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		st, ok := sourceTypes[doc.SourceId]
		if !ok {
			src, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: doc.SourceId})
			if err != nil {
				return nil, err
			}
			if src != nil {
				st = src.Type
			}
			sourceTypes[doc.SourceId] = st
		}
		response = append(response, dto.ShowDocumentResponse{
			Id:         doc.Id,
			SourceId:   doc.SourceId,
			SourceType: st,
			ExternalId: doc.ExternalId,
			Title:      doc.Title,
			Meta:       doc.Meta,
			CreatedAt:  doc.CreatedAt,
			UpdatedAt:  doc.UpdatedAt,
		})
	}

	return &dto.ListDocumentsResponse{
		Documents: response,
		Total:     total,
	}, nil
}

func (s *documentService) Embed(ctx context.Context, req *dto.EmbedDocumentRequest) (*dto.EmbedDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	msgPayload := dto.PublishEmbedDocumentMessage{
		DocumentId: doc.Id,
		Force:      req.Force,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.EmbedDocumentResponse{
		Id:     doc.Id,
		Queued: true,
	}, nil
}
