package bootstrap

import (
	"context"
	"log"
	"time"

	"evidence-engine-be/internal/config"
	"evidence-engine-be/internal/controller"
	"evidence-engine-be/internal/pkg/logger"
	"evidence-engine-be/internal/repository/unitofwork"
	"evidence-engine-be/internal/service"
	"evidence-engine-be/pkg/chunker"
	"evidence-engine-be/pkg/embedding"
	"evidence-engine-be/pkg/embedding/jina"
	"evidence-engine-be/pkg/events"
	pktNats "evidence-engine-be/pkg/nats"
	"evidence-engine-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController  controller.IDocumentController
	RetrievalController controller.IRetrievalController
	CitationController  controller.ICitationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding Provider (optional: retrieval degrades to lexical-only
	// and embed jobs are skipped when none can be constructed)
	var embeddingProvider embedding.Provider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		p, err := jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		if err != nil {
			log.Printf("[WARN] Jina provider unavailable: %v", err)
		} else {
			embeddingProvider = p
			log.Printf("[INFO] Using Embedding Provider: JINA AI")
		}
	default:
		p, err := embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.EmbeddingModel)
		if err != nil {
			log.Printf("[WARN] OpenAI provider unavailable: %v", err)
		} else {
			if cfg.Ai.OpenAIBaseURL != "" {
				p = p.WithBaseURL(cfg.Ai.OpenAIBaseURL)
			}
			embeddingProvider = p
			log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
		}
	}

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Cross-service ingestion events land in the structured log as an
	// audit trail. Degrades to publish-only when the bus is unreachable.
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		err = natsSub.Subscribe("events.DOCUMENT_INGESTED", "evidence-engine-ingest-audit",
			func(ctx context.Context, event events.Event) error {
				sysLogger.Info("ingest_audit", "Document ingested", event.Payload())
				return nil
			})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to ingestion events: %v", err)
		}
	}

	// Redis (vector cache). Falls back to in-memory when unreachable.
	cacheTTL := time.Duration(cfg.Ai.CacheTTLHours) * time.Hour
	var vectorCache embedding.VectorCache = embedding.NewMemoryVectorCache(cacheTTL)

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, using in-memory vector cache: %v", err)
	} else {
		vectorCache = embedding.NewRedisVectorCache(rdb, cacheTTL)
	}

	if embeddingProvider != nil {
		embeddingProvider = embedding.NewCachedProvider(embeddingProvider, vectorCache)
	}

	// Chunker (fail fast: a bad chunking config can silently corrupt the
	// whole index)
	splitter, err := chunker.New(cfg.Chunking.SizeChars, cfg.Chunking.OverlapChars)
	if err != nil {
		log.Fatalf("[FATAL] Invalid chunking config: %v", err)
	}

	// Hybrid searcher over the two index adapters
	var queryEmbedder retrieval.QueryEmbedder
	if embeddingProvider != nil {
		queryEmbedder = embeddingProvider
	}
	searcher := retrieval.NewSearcher(
		service.NewLexicalIndexAdapter(uowFactory),
		service.NewVectorIndexAdapter(uowFactory),
		queryEmbedder,
		log.Default(),
	)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.EmbedTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopicName,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		splitter,
		natsPub,
		sysLogger,
	)
	retrievalService := service.NewRetrievalService(
		uowFactory,
		searcher,
		cfg.Retrieval.DefaultAlpha,
		sysLogger,
	)
	citationService := service.NewCitationService()

	// 5. Controllers
	return &Container{
		DocumentController:  controller.NewDocumentController(documentService),
		RetrievalController: controller.NewRetrievalController(retrievalService),
		CitationController:  controller.NewCitationController(citationService),

		ConsumerService: consumerService,
	}
}
