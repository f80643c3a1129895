package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ai"
	oai "github.com/ecisterna/DT-Virtual-Amateur/pkg/ai/ollama"
	gai "github.com/ecisterna/DT-Virtual-Amateur/pkg/ai/openai"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/config"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/cypher"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/graph"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ingest"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ner"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/query"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/scouting"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store/memory"
	neo "github.com/ecisterna/DT-Virtual-Amateur/pkg/store/neo4j"
	pgstore "github.com/ecisterna/DT-Virtual-Amateur/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewAIClient builds the language model adapter named by AI_ADAPTER.
func NewAIClient() (ai.GraphAIClient, error) {
	adapter := util.GetEnvString("AI_ADAPTER", "openai")
	chatModel := util.GetEnv("AI_CHAT_MODEL")
	extractModel := util.GetEnv("AI_EXTRACT_MODEL")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ChatModel:             chatModel,
			ExtractionModel:       extractModel,
			BaseURL:               util.GetEnv("AI_CHAT_URL"),
			ApiKey:                util.GetEnv("AI_CHAT_KEY"),
			MaxConcurrentRequests: int64(util.GetEnvInt("AI_PARALLEL_REQ", 1)),
		})
		if err != nil {
			return nil, fmt.Errorf("could not create Ollama client: %w", err)
		}
		return client, nil
	case "openai":
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ChatModel:       chatModel,
			ExtractionModel: extractModel,
			ChatURL:         util.GetEnv("AI_CHAT_URL"),
			ChatKey:         util.GetEnv("AI_CHAT_KEY"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI_ADAPTER %q", adapter)
	}
}

// GraphBackend is the graph store selected by GRAPH_ADAPTER. Runner is nil
// for backends that cannot execute Cypher.
type GraphBackend struct {
	Adapter string
	Store   store.GraphStore
	Runner  cypher.Runner
	close   func()
}

func (b *GraphBackend) Close() {
	if b.close != nil {
		b.close()
	}
}

// NewGraphBackend connects the graph store named by GRAPH_ADAPTER
// ("neo4j", "pgx" or "memory") and prepares its schema.
func NewGraphBackend(ctx context.Context) (*GraphBackend, error) {
	adapter := util.GetEnvString("GRAPH_ADAPTER", "neo4j")

	switch adapter {
	case "neo4j":
		tries := util.GetEnvInt("GRAPH_CONNECT_RETRIES", 5)
		s, err := util.RetryWithContext(ctx, tries, 2*time.Second, func(ctx context.Context) (*neo.GraphStorage, error) {
			return neo.NewGraphStorage(ctx, neo.NewGraphStorageParams{
				URI:      util.GetEnvString("NEO4J_URI", "bolt://localhost:7687"),
				Username: util.GetEnvString("NEO4J_USERNAME", "neo4j"),
				Password: util.GetEnv("NEO4J_PASSWORD"),
				Database: util.GetEnv("NEO4J_DATABASE"),
			})
		})
		if err != nil {
			return nil, err
		}
		err = util.RetryErrWithContext(ctx, tries, 2*time.Second, s.EnsureSchema)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return &GraphBackend{
			Adapter: adapter,
			Store:   s,
			Runner:  s,
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.Close(closeCtx); err != nil {
					logger.Warn("[Setup] Failed to close neo4j driver", "err", err)
				}
			},
		}, nil
	case "pgx":
		dbURL := util.GetEnv("DATABASE_URL")
		migrations := util.GetEnvString("MIGRATIONS_PATH", "file://migrations")
		if err := pgstore.Migrate(migrations, dbURL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		timeout := time.Duration(util.GetEnvInt("DATABASE_STATEMENT_TIMEOUT_MS", 5000)) * time.Millisecond
		return &GraphBackend{
			Adapter: adapter,
			Store:   pgstore.NewGraphDBStorageWithConnection(pool, pgstore.WithStatementTimeout(timeout)),
			close:   pool.Close,
		}, nil
	case "memory":
		return &GraphBackend{Adapter: adapter, Store: memory.NewGraphStorage()}, nil
	default:
		return nil, fmt.Errorf("unknown GRAPH_ADAPTER %q", adapter)
	}
}

// App holds the collaborators shared by the server and the worker.
type App struct {
	Rules      config.Rules
	Resolver   *scouting.Resolver
	Validator  *cypher.Validator
	Recognizer ner.Recognizer
	Graph      *graph.GraphClient
	Pipeline   *ingest.Pipeline
	Query      *query.Client
	AI         ai.GraphAIClient
}

type NewAppParams struct {
	Rules   config.Rules
	AI      ai.GraphAIClient
	Backend *GraphBackend
	// Parallel bounds batch ingestion.
	Parallel int
	Tracer   query.Tracer
}

// NewApp wires rules, the graph backend and the language model into the
// resolver, the ingestion pipeline and the question client.
func NewApp(params NewAppParams) (*App, error) {
	if params.Backend == nil || params.Backend.Store == nil {
		return nil, fmt.Errorf("graph backend is required")
	}
	if params.AI == nil {
		return nil, fmt.Errorf("ai client is required")
	}

	resolver := scouting.NewResolver(scouting.NewResolverParams{
		StopWords: params.Rules.StopWords,
	})
	validator := cypher.NewValidator(cypher.NewValidatorParams{
		ForbiddenKeywords: params.Rules.ForbiddenKeywords,
		GraphClauses:      params.Rules.GraphClauses,
	})
	recognizer := ner.NewAIRecognizer(params.AI)

	graphClient, err := graph.NewGraphClient(graph.NewGraphClientParams{Store: params.Backend.Store})
	if err != nil {
		return nil, err
	}
	pipeline, err := ingest.NewPipeline(ingest.NewPipelineParams{
		Resolver:   resolver,
		Mutator:    graphClient,
		Recognizer: recognizer,
		Parallel:   params.Parallel,
	})
	if err != nil {
		return nil, err
	}
	queryClient, err := query.NewClient(query.NewClientParams{
		AI:        params.AI,
		Validator: validator,
		Runner:    params.Backend.Runner,
		Tracer:    params.Tracer,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[Setup] Application wired", "graph", params.Backend.Adapter, "stop_words", len(params.Rules.StopWords))
	return &App{
		Rules:      params.Rules,
		Resolver:   resolver,
		Validator:  validator,
		Recognizer: recognizer,
		Graph:      graphClient,
		Pipeline:   pipeline,
		Query:      queryClient,
		AI:         params.AI,
	}, nil
}

// NewAppFromEnv loads the rules file, the language model and the graph
// backend from the environment. The caller closes the returned backend.
func NewAppFromEnv(ctx context.Context) (*App, *GraphBackend, error) {
	rules, err := config.LoadRules(util.GetEnvString("SCOUT_RULES_FILE", "config/rules.yaml"))
	if err != nil {
		return nil, nil, err
	}
	rules.StopWords = append(rules.StopWords, util.GetEnvList("SCOUT_EXTRA_STOP_WORDS")...)
	aiClient, err := NewAIClient()
	if err != nil {
		return nil, nil, err
	}
	backend, err := NewGraphBackend(ctx)
	if err != nil {
		return nil, nil, err
	}
	app, err := NewApp(NewAppParams{
		Rules:    rules,
		AI:       aiClient,
		Backend:  backend,
		Parallel: util.GetEnvInt("INGEST_PARALLEL", 4),
	})
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return app, backend, nil
}
