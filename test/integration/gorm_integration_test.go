package integration

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/repository/specification"
	"evidence-engine-be/internal/repository/unitofwork"
	"evidence-engine-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SourceRepository())
	assert.NotNil(t, uow.RetrievalRequestRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Document Repository", func(t *testing.T) {
		count, err := uow.DocumentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Document count: %d", count)
	})

	t.Run("Check Chunk Embedding Repository", func(t *testing.T) {
		count, err := uow.ChunkEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChunkEmbedding count: %d", count)
	})

	t.Run("Check Transactional Document Ingest", func(t *testing.T) {
		ctx := context.Background()
		workspaceId := uuid.New()

		source := &entity.Source{
			Id:          uuid.New(),
			WorkspaceId: workspaceId,
			Type:        "document",
			Name:        "Integration Docs",
			Config:      map[string]interface{}{},
		}
		err := uow.SourceRepository().Create(ctx, source)
		assert.NoError(t, err)

		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		doc := &entity.Document{
			Id:          uuid.New(),
			WorkspaceId: workspaceId,
			SourceId:    source.Id,
			Title:       "Integration Test Document",
			RawText:     "A short integration test body",
			Meta:        map[string]interface{}{"format": "text"},
		}
		err = uow.DocumentRepository().Create(ctx, doc)
		assert.NoError(t, err)

		chunks := []*entity.Chunk{
			{
				Id:          uuid.New(),
				DocumentId:  doc.Id,
				ChunkIndex:  0,
				Text:        "A short integration test body",
				StartOffset: 0,
				EndOffset:   29,
			},
		}
		err = uow.ChunkRepository().CreateBulk(ctx, chunks)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		found, err := uow.DocumentRepository().FindOne(ctx,
			specification.ByID{ID: doc.Id},
			specification.ByWorkspaceID{WorkspaceID: workspaceId},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)

		t.Log("Successfully created Document with Chunks in Transaction")
	})

	t.Run("Check Long Query Trace Row", func(t *testing.T) {
		ctx := context.Background()
		workspaceId := uuid.New()

		// Audit rows must survive arbitrarily long queries.
		request := &entity.RetrievalRequest{
			Id:              uuid.New(),
			WorkspaceId:     workspaceId,
			CreatedByUserId: uuid.New(),
			Query:           strings.Repeat("sprint planning notes ", 40),
			K:               8,
			Alpha:           0.65,
			Timeframe:       map[string]interface{}{},
		}
		err := uow.RetrievalRequestRepository().CreateRequest(ctx, request)
		assert.NoError(t, err)

		found, err := uow.RetrievalRequestRepository().FindRequestOne(ctx,
			specification.ByID{ID: request.Id},
			specification.ByWorkspaceID{WorkspaceID: workspaceId},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, request.Query, found.Query)
		}
	})
}
