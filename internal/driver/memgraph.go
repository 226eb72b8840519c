package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
	logger *zap.Logger
}

var _ GraphDriver = (*MemgraphDriver)(nil)

func NewMemgraphDriver(ctx context.Context, uri, username, password string, logger *zap.Logger) (*MemgraphDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create memgraph driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach memgraph at %s: %w", uri, err)
	}

	logger = logger.Named("memgraph")
	logger.Info("connected to memgraph", zap.String("uri", uri))
	return &MemgraphDriver{Driver: driver, logger: logger}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// BuildIndices creates the lookup indices used by the projection. Errors are
// logged and ignored since an index may already exist.
func (d *MemgraphDriver) BuildIndices(ctx context.Context) error {
	for _, q := range IndexQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			d.logger.Warn("failed to create index", zap.String("query", q), zap.Error(err))
		}
	}
	return nil
}
