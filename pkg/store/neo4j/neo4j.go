package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
)

// Physical names used in the Neo4j database. They are the names the question
// prompts refer to, so they are kept in Spanish.
const (
	labelRival        = "Rival"
	labelJugadorRival = "JugadorRival"
	relJugadorClave   = "TIENE_JUGADOR_CLAVE"
	keyProperty       = "nombre"
)

type execResult struct {
	NodesCreated int
	RelsCreated  int
	Rows         []map[string]any
}

type executor interface {
	execute(ctx context.Context, query string, params map[string]any, write bool) (execResult, error)
}

type driverExecutor struct {
	driver   neo4j.DriverWithContext
	database string
}

func (e *driverExecutor) execute(ctx context.Context, query string, params map[string]any, write bool) (execResult, error) {
	routing := neo4j.ExecuteQueryWithReadersRouting()
	if write {
		routing = neo4j.ExecuteQueryWithWritersRouting()
	}

	opts := []neo4j.ExecuteQueryConfigurationOption{routing}
	if e.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.database))
	}

	res, err := neo4j.ExecuteQuery(ctx, e.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return execResult{}, err
	}

	out := execResult{Rows: make([]map[string]any, 0, len(res.Records))}
	for _, rec := range res.Records {
		out.Rows = append(out.Rows, rec.AsMap())
	}
	if res.Summary != nil {
		counters := res.Summary.Counters()
		out.NodesCreated = counters.NodesCreated()
		out.RelsCreated = counters.RelationshipsCreated()
	}
	return out, nil
}

// GraphStorage implements store.GraphStore and cypher.Runner on Neo4j.
type GraphStorage struct {
	exec   executor
	driver neo4j.DriverWithContext
}

type NewGraphStorageParams struct {
	URI      string
	Username string
	Password string
	Database string
}

// NewGraphStorage connects to Neo4j and verifies the connection.
func NewGraphStorage(ctx context.Context, params NewGraphStorageParams) (*GraphStorage, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j at %s: %w", params.URI, err)
	}

	logger.Info("[Graph][Neo4j] Connected", "uri", params.URI, "database", params.Database)
	return &GraphStorage{
		exec:   &driverExecutor{driver: driver, database: params.Database},
		driver: driver,
	}, nil
}

// Close releases the driver.
func (s *GraphStorage) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

// EnsureSchema creates the uniqueness constraints MERGE relies on.
func (s *GraphStorage) EnsureSchema(ctx context.Context) error {
	for _, label := range []string{labelRival, labelJugadorRival} {
		q := fmt.Sprintf(
			"CREATE CONSTRAINT %s_%s_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
			label, keyProperty, label, keyProperty,
		)
		if _, err := s.exec.execute(ctx, q, nil, true); err != nil {
			return fmt.Errorf("failed to create constraint on %s: %w", label, err)
		}
	}
	return nil
}

// Run executes a read-only query and returns its rows.
func (s *GraphStorage) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	res, err := s.exec.execute(ctx, query, params, false)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	logger.Debug("[Query][Neo4j] Query executed", "rows", len(res.Rows))
	return res.Rows, nil
}
