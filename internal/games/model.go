package games

import (
	"encoding/json"
	"time"

	"github.com/agenthands/storyweave/internal/story"
)

// SavedGame is the persisted document. Members the server does not model
// are kept in Extra and written back unchanged.
type SavedGame struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Nodes       []story.StoryNode `json:"nodes"`
	Edges       []story.Edge      `json:"edges"`
	GameConfig  story.GameConfig  `json:"gameConfig"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Extra       story.Extras      `json:"-"`
}

var savedGameFields = []string{"id", "title", "description", "nodes", "edges", "gameConfig", "createdAt", "updatedAt"}

func (g *SavedGame) UnmarshalJSON(data []byte) error {
	type plain SavedGame
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := story.SplitExtras(data, savedGameFields...)
	if err != nil {
		return err
	}
	*g = SavedGame(p)
	g.Extra = extra
	return nil
}

func (g SavedGame) MarshalJSON() ([]byte, error) {
	type plain SavedGame
	base, err := json.Marshal(plain(g))
	if err != nil {
		return nil, err
	}
	return story.MergeExtras(base, g.Extra)
}

// GameInput is a client-submitted game. Any id or timestamps the client
// sends are dropped.
type GameInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Nodes       []story.StoryNode `json:"nodes"`
	Edges       []story.Edge      `json:"edges"`
	GameConfig  story.GameConfig  `json:"gameConfig"`
	Extra       story.Extras      `json:"-"`
}

func (in *GameInput) UnmarshalJSON(data []byte) error {
	type plain GameInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := story.SplitExtras(data, savedGameFields...)
	if err != nil {
		return err
	}
	*in = GameInput(p)
	in.Extra = extra
	return nil
}

type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	NodeCount   int       `json:"nodeCount"`
	EdgeCount   int       `json:"edgeCount"`
}

func (g *SavedGame) Summary() Summary {
	return Summary{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
	}
}
