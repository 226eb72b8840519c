package driver

var IndexQueries = []string{
	"CREATE INDEX ON :StoryGame(id);",
	"CREATE INDEX ON :StoryNode(key);",
	"CREATE INDEX ON :StoryNode(game_id);",
}

const (
	SaveGameQuery = `
		MERGE (g:StoryGame {id: $id})
		SET g.title = $title,
			g.description = $description,
			g.created_at = $created_at,
			g.node_count = $node_count,
			g.edge_count = $edge_count,
			g.component_count = $component_count
		RETURN g.id AS id
	`

	SaveStoryNodesQuery = `
		MATCH (g:StoryGame {id: $game_id})
		UNWIND $nodes AS n
		MERGE (s:StoryNode {key: n.key})
		SET s.id = n.id,
			s.game_id = $game_id,
			s.label = n.label,
			s.story = n.story,
			s.choice = n.choice,
			s.image_url = n.image_url,
			s.stat_changes = n.stat_changes
		MERGE (g)-[:HAS_NODE]->(s)
		RETURN count(s) AS saved
	`

	SaveChoiceEdgesQuery = `
		UNWIND $edges AS e
		MATCH (a:StoryNode {key: e.source})
		MATCH (b:StoryNode {key: e.target})
		MERGE (a)-[:CHOICE]->(b)
		RETURN count(*) AS saved
	`
)
