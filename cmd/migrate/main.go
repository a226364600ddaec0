package main

import (
	"log"
	"os"

	"evidence-engine-be/internal/model"
	"evidence-engine-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Source{},
		&model.Document{},
		&model.Chunk{},
		&model.ChunkEmbedding{},
		&model.RetrievalRequest{},
		&model.RetrievalRequestItem{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: generated tsvector column + indexes that
	// AutoMigrate cannot express.
	log.Println("Step 3: Creating FTS column and indexes...")

	postMigrationSQL := []string{
		// Lexical index: generated tsvector over chunk text
		`DO $$ BEGIN
		   IF NOT EXISTS (
		     SELECT 1 FROM information_schema.columns
		     WHERE table_name = 'chunks' AND column_name = 'tsv'
		   ) THEN
		     ALTER TABLE chunks ADD COLUMN tsv tsvector
		       GENERATED ALWAYS AS (to_tsvector('english', coalesce(text, ''))) STORED;
		   END IF;
		 END $$;`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_tsv ON chunks USING GIN (tsv);`,

		// Vector index: cosine ops for chunk embeddings
		`CREATE INDEX IF NOT EXISTS idx_chunk_embeddings_vector
		   ON chunk_embeddings USING hnsw (vector vector_cosine_ops);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
