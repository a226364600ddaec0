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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewChunkRepository(db *gorm.DB) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *ChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.Chunk{}).Error
}

func (r *ChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error) {
	var m model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Chunk{}).Count(&count).Error
	return count, err
}

// candidateRow is the scan target for the joined candidate queries.
type candidateRow struct {
	ChunkId       uuid.UUID
	DocumentId    uuid.UUID
	SourceId      uuid.UUID
	DocumentTitle string
	ChunkIndex    int
	Snippet       string
	Meta          datatypes.JSONMap
	Score         float64
}

func (row *candidateRow) toCandidate() *contract.ChunkCandidate {
	return &contract.ChunkCandidate{
		ChunkId:       row.ChunkId,
		DocumentId:    row.DocumentId,
		SourceId:      row.SourceId,
		DocumentTitle: row.DocumentTitle,
		ChunkIndex:    row.ChunkIndex,
		Snippet:       row.Snippet,
		Meta:          map[string]interface{}(row.Meta),
		Score:         row.Score,
	}
}

// applySearchFilter adds the shared workspace/source-type/timeframe predicates
// used by both candidate queries. Timeframe bounds apply to the document's
// last-touched timestamp, falling back to creation time.
func applySearchFilter(db *gorm.DB, filter contract.SearchFilter) *gorm.DB {
	db = db.Where("d.workspace_id = ?", filter.WorkspaceId)
	if len(filter.SourceTypes) > 0 {
		db = db.Where("s.type IN ?", filter.SourceTypes)
	}
	if filter.Start != nil {
		db = db.Where("COALESCE(d.updated_at, d.created_at) >= ?", *filter.Start)
	}
	if filter.End != nil {
		db = db.Where("COALESCE(d.updated_at, d.created_at) <= ?", *filter.End)
	}
	return db
}

func (r *ChunkRepositoryImpl) SearchLexical(ctx context.Context, query string, filter contract.SearchFilter) ([]*contract.ChunkCandidate, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 30
	}

	var rows []candidateRow
	q := r.db.WithContext(ctx).
		Table("chunks c").
		Select(`c.id AS chunk_id,
			d.id AS document_id,
			d.source_id AS source_id,
			d.title AS document_title,
			c.chunk_index AS chunk_index,
			left(c.text, 240) AS snippet,
			d.meta AS meta,
			ts_rank_cd(c.tsv, websearch_to_tsquery('english', ?)) AS score`, query).
		Joins("JOIN documents d ON d.id = c.document_id").
		Joins("JOIN sources s ON s.id = d.source_id").
		Where("c.tsv @@ websearch_to_tsquery('english', ?)", query)

	q = applySearchFilter(q, filter)

	err := q.Order("score DESC").
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
