package implementation

import (
	"context"
	"errors"

	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/mapper"
	"evidence-engine-be/internal/model"
	"evidence-engine-be/internal/repository/contract"
	"evidence-engine-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkEmbeddingMapper
}

func NewChunkEmbeddingRepository(db *gorm.DB) contract.ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkEmbeddingMapper(),
	}
}

func (r *ChunkEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ChunkEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := r.mapper.ToModels(embeddings)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChunkEmbeddingRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	subQuery := r.db.Table("chunks").Select("id").Where("document_id = ?", documentId)
	return r.db.WithContext(ctx).Where("chunk_id IN (?)", subQuery).Delete(&model.ChunkEmbedding{}).Error
}

func (r *ChunkEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChunkEmbedding, error) {
	var m model.ChunkEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChunkEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChunkEmbedding{}).Count(&count).Error
	return count, err
}

func (r *ChunkEmbeddingRepositoryImpl) EmbeddedChunkIds(ctx context.Context, chunkIds []uuid.UUID, embModel string) ([]uuid.UUID, error) {
	if len(chunkIds) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.ChunkEmbedding{}).
		Where("chunk_id IN ?", chunkIds).
		Where("model = ?", embModel).
		Pluck("chunk_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ChunkEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, embModel string, filter contract.SearchFilter) ([]*contract.ChunkCandidate, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 30
	}

	queryVector := pgvector.NewVector(vector)

	var rows []candidateRow
	q := r.db.WithContext(ctx).
		Table("chunk_embeddings e").
		Select(`c.id AS chunk_id,
			d.id AS document_id,
			d.source_id AS source_id,
			d.title AS document_title,
			c.chunk_index AS chunk_index,
			left(c.text, 240) AS snippet,
			d.meta AS meta,
			1 - (e.vector <=> ?) AS score`, queryVector).
		Joins("JOIN chunks c ON c.id = e.chunk_id").
		Joins("JOIN documents d ON d.id = c.document_id").
		Joins("JOIN sources s ON s.id = d.source_id").
		Where("e.model = ?", embModel).
		Where("e.vector IS NOT NULL")

	q = applySearchFilter(q, filter)

	err := q.Order(gorm.Expr("e.vector <=> ? ASC", queryVector)).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]*contract.ChunkCandidate, len(rows))
	for i := range rows {
		candidates[i] = rows[i].toCandidate()
	}
	return candidates, nil
}
