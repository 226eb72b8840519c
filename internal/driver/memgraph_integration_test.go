//go:build integration

package driver

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemgraphProjection(t *testing.T) {
	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("MEMGRAPH_URI not set")
	}
	ctx := context.Background()

	d, err := NewMemgraphDriver(ctx, uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"), zap.NewNop())
	require.NoError(t, err)
	defer d.Close(ctx)
	require.NoError(t, d.BuildIndices(ctx))

	game := sampleGame()
	require.NoError(t, NewGameProjector(d).ProjectGame(ctx, game))

	res, err := d.ExecuteQuery(ctx, `
		MATCH (g:StoryGame {id: $id})-[:HAS_NODE]->(n:StoryNode)
		OPTIONAL MATCH (n)-[c:CHOICE]->(:StoryNode)
		RETURN count(DISTINCT n) AS nodes, count(c) AS choices
	`, map[string]interface{}{"id": game.ID})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	nodes, _ := res.Records[0].Get("nodes")
	choices, _ := res.Records[0].Get("choices")
	assert.EqualValues(t, 3, nodes)
	assert.EqualValues(t, 1, choices)

	_, err = d.ExecuteQuery(ctx, "MATCH (g:StoryGame {id: $id}) OPTIONAL MATCH (g)-[:HAS_NODE]->(n) DETACH DELETE g, n",
		map[string]interface{}{"id": game.ID})
	require.NoError(t, err)
}
