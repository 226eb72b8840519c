package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agenthands/storyweave/internal/games"
	"github.com/agenthands/storyweave/internal/story"
)

var _ games.Projector = (*GameProjector)(nil)

// GameProjector mirrors saved games into a property graph as
// (:StoryGame)-[:HAS_NODE]->(:StoryNode)-[:CHOICE]->(:StoryNode).
// Node keys are scoped by game id so graphs never share nodes.
type GameProjector struct {
	driver GraphDriver
}

func NewGameProjector(d GraphDriver) *GameProjector {
	return &GameProjector{driver: d}
}

func nodeKey(gameID, nodeID string) string {
	return gameID + ":" + nodeID
}

func (p *GameProjector) ProjectGame(ctx context.Context, game *games.SavedGame) error {
	_, err := p.driver.ExecuteQuery(ctx, SaveGameQuery, map[string]interface{}{
		"id":              game.ID,
		"title":           game.Title,
		"description":     game.Description,
		"created_at":      game.CreatedAt.Format(time.RFC3339Nano),
		"node_count":      len(game.Nodes),
		"edge_count":      len(game.Edges),
		"component_count": len(story.Components(game.Nodes, game.Edges)),
	})
	if err != nil {
		return fmt.Errorf("failed to project game %s: %w", game.ID, err)
	}

	if len(game.Nodes) > 0 {
		nodes := make([]interface{}, 0, len(game.Nodes))
		for _, n := range game.Nodes {
			stats := ""
			if len(n.StatChanges) > 0 {
				b, err := json.Marshal(n.StatChanges)
				if err != nil {
					return fmt.Errorf("failed to encode stat changes of node %s: %w", n.ID, err)
				}
				stats = string(b)
			}
			nodes = append(nodes, map[string]interface{}{
				"key":          nodeKey(game.ID, n.ID),
				"id":           n.ID,
				"label":        n.Title(),
				"story":        n.Story,
				"choice":       n.Choice,
				"image_url":    n.ImageURL,
				"stat_changes": stats,
			})
		}
		if _, err := p.driver.ExecuteQuery(ctx, SaveStoryNodesQuery, map[string]interface{}{
			"game_id": game.ID,
			"nodes":   nodes,
		}); err != nil {
			return fmt.Errorf("failed to project nodes of game %s: %w", game.ID, err)
		}
	}

	if len(game.Edges) > 0 {
		edges := make([]interface{}, 0, len(game.Edges))
		for _, e := range game.Edges {
			edges = append(edges, map[string]interface{}{
				"source": nodeKey(game.ID, e.Source),
				"target": nodeKey(game.ID, e.Target),
			})
		}
		if _, err := p.driver.ExecuteQuery(ctx, SaveChoiceEdgesQuery, map[string]interface{}{
			"edges": edges,
		}); err != nil {
			return fmt.Errorf("failed to project edges of game %s: %w", game.ID, err)
		}
	}
	return nil
}
