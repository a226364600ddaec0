package service

import (
	"context"
	"encoding/json"
	"time"

	"evidence-engine-be/internal/dto"
	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/pkg/logger"
	"evidence-engine-be/internal/repository/specification"
	"evidence-engine-be/internal/repository/unitofwork"
	"evidence-engine-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer_service", "Failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, drop them
		return
	}

	if cs.embeddingProvider == nil {
		cs.logger.Warn("consumer_service", "Embedding provider not configured, skipping embed job", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info("consumer_service", "Processing embed job", map[string]interface{}{
		"document_id": payload.DocumentId.String(),
		"force":       payload.Force,
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("consumer_service", "Failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		// Deleted between enqueue and processing.
		msg.Ack()
		return
	}

	chunks, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: doc.Id},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		cs.logger.Error("consumer_service", "Failed to load chunks", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if len(chunks) == 0 {
		msg.Ack()
		return
	}

	embModel := cs.embeddingProvider.Model()

	todo := chunks
	if !payload.Force {
		chunkIds := make([]uuid.UUID, len(chunks))
		for i, c := range chunks {
			chunkIds[i] = c.Id
		}
		existing, err := uow.ChunkEmbeddingRepository().EmbeddedChunkIds(ctx, chunkIds, embModel)
		if err != nil {
			cs.logger.Error("consumer_service", "Failed to check existing embeddings", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
		done := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			done[id] = true
		}
		todo = make([]*entity.Chunk, 0, len(chunks))
		for _, c := range chunks {
			if !done[c.Id] {
				todo = append(todo, c)
			}
		}
	}

	if len(todo) == 0 {
		cs.logger.Info("consumer_service", "All chunks already embedded", map[string]interface{}{
			"document_id": doc.Id.String(),
			"model":       embModel,
		})
		msg.Ack()
		return
	}

	texts := make([]string, len(todo))
	for i, c := range todo {
		texts[i] = c.Text
	}

	vectors, err := cs.embeddingProvider.Embed(ctx, texts, embedding.TaskDocument)
	if err != nil {
		cs.logger.Error("consumer_service", "Embedding provider call failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"chunks":      len(todo),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if len(vectors) != len(todo) {
		cs.logger.Error("consumer_service", "Embedding count mismatch", map[string]interface{}{
			"document_id": doc.Id.String(),
			"want":        len(todo),
			"got":         len(vectors),
		})
		msg.Nack()
		return
	}

	newEmbeddings := make([]*entity.ChunkEmbedding, len(todo))
	for i, c := range todo {
		newEmbeddings[i] = &entity.ChunkEmbedding{
			Id:        uuid.New(),
			ChunkId:   c.Id,
			Model:     embModel,
			Vector:    vectors[i],
			CreatedAt: time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if payload.Force {
		if err := uow.ChunkEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
			cs.logger.Error("consumer_service", "Failed to delete old embeddings", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := uow.ChunkEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		cs.logger.Error("consumer_service", "Failed to store embeddings", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		msg.Nack()
		return
	}

	cs.logger.Info("consumer_service", "Embed job done", map[string]interface{}{
		"document_id": doc.Id.String(),
		"embedded":    len(newEmbeddings),
		"model":       embModel,
	})
	msg.Ack()
}
