package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agenthands/storyweave/internal/games"
	"github.com/agenthands/storyweave/internal/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGame() *games.SavedGame {
	return &games.SavedGame{
		ID:        "cafe0001",
		Title:     "Dragon Road",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Nodes: []story.StoryNode{
			{ID: "1", Label: "Start", StatChanges: map[string]int{"health": 5}},
			{ID: "2", Choice: "Run"},
			{ID: "3"},
		},
		Edges: []story.Edge{{Source: "1", Target: "2"}},
	}
}

func TestProjectGame(t *testing.T) {
	mock := &MockDriver{}
	p := NewGameProjector(mock)

	require.NoError(t, p.ProjectGame(context.Background(), sampleGame()))
	require.Len(t, mock.Queries, 3)
	assert.Equal(t, SaveGameQuery, mock.Queries[0])
	assert.Equal(t, SaveStoryNodesQuery, mock.Queries[1])
	assert.Equal(t, SaveChoiceEdgesQuery, mock.Queries[2])

	gameParams := mock.Params[0]
	assert.Equal(t, "cafe0001", gameParams["id"])
	assert.Equal(t, "2024-01-02T03:04:05Z", gameParams["created_at"])
	assert.Equal(t, 2, gameParams["component_count"])

	nodes := mock.Params[1]["nodes"].([]interface{})
	require.Len(t, nodes, 3)
	first := nodes[0].(map[string]interface{})
	assert.Equal(t, "cafe0001:1", first["key"])
	assert.Equal(t, `{"health":5}`, first["stat_changes"])
	assert.Equal(t, "Node 3", nodes[2].(map[string]interface{})["label"])

	edges := mock.Params[2]["edges"].([]interface{})
	assert.Equal(t, map[string]interface{}{"source": "cafe0001:1", "target": "cafe0001:2"}, edges[0])
}

func TestProjectGame_SkipsEmptyBatches(t *testing.T) {
	mock := &MockDriver{}
	p := NewGameProjector(mock)

	game := sampleGame()
	game.Nodes = nil
	game.Edges = nil
	require.NoError(t, p.ProjectGame(context.Background(), game))
	assert.Equal(t, []string{SaveGameQuery}, mock.Queries)
}

func TestProjectGame_Error(t *testing.T) {
	boom := errors.New("connection refused")
	mock := &MockDriver{Err: boom, FailOn: SaveStoryNodesQuery}
	p := NewGameProjector(mock)

	err := p.ProjectGame(context.Background(), sampleGame())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, mock.Queries, 2)
}
