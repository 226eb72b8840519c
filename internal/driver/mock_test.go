package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var _ GraphDriver = (*MockDriver)(nil)

type MockDriver struct {
	Queries    []string
	Params     []map[string]interface{}
	MockResult neo4j.EagerResult
	FailOn     string
	Err        error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil && (m.FailOn == "" || m.FailOn == query) {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
