package story

import (
	"bytes"
	"encoding/json"
)

// Extras keeps JSON members a type does not model so that client documents
// survive a save/load round trip unchanged.
type Extras map[string]json.RawMessage

type StoryNode struct {
	ID          string         `json:"id"`
	Label       string         `json:"label,omitempty"`
	Story       string         `json:"story,omitempty"`
	Choice      string         `json:"choice,omitempty"`
	StatChanges map[string]int `json:"statChanges,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Extra       Extras         `json:"-"`
}

// Title is the node label, or a synthesized "Node {id}".
func (n StoryNode) Title() string {
	if n.Label != "" {
		return n.Label
	}
	return "Node " + n.ID
}

func (n *StoryNode) UnmarshalJSON(data []byte) error {
	type plain StoryNode
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := SplitExtras(data, "id", "label", "story", "choice", "statChanges", "imageUrl")
	if err != nil {
		return err
	}
	*n = StoryNode(p)
	n.Extra = extra
	return nil
}

func (n StoryNode) MarshalJSON() ([]byte, error) {
	type plain StoryNode
	base, err := json.Marshal(plain(n))
	if err != nil {
		return nil, err
	}
	return MergeExtras(base, n.Extra)
}

// Edge is a directed parent -> child link. Fields other than source and
// target (ids, handles, styling) are carried in Extra.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Extra  Extras `json:"-"`
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	type plain Edge
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := SplitExtras(data, "source", "target")
	if err != nil {
		return err
	}
	*e = Edge(p)
	e.Extra = extra
	return nil
}

func (e Edge) MarshalJSON() ([]byte, error) {
	type plain Edge
	base, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	return MergeExtras(base, e.Extra)
}

type GameConfig struct {
	StoryTitle       string            `json:"storyTitle,omitempty"`
	StoryDescription string            `json:"storyDescription,omitempty"`
	StatNames        map[string]string `json:"statNames,omitempty"`
	InitialStats     map[string]int    `json:"initialStats,omitempty"`
	Extra            Extras            `json:"-"`
}

func (c *GameConfig) UnmarshalJSON(data []byte) error {
	type plain GameConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := SplitExtras(data, "storyTitle", "storyDescription", "statNames", "initialStats")
	if err != nil {
		return err
	}
	*c = GameConfig(p)
	c.Extra = extra
	return nil
}

func (c GameConfig) MarshalJSON() ([]byte, error) {
	type plain GameConfig
	base, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	return MergeExtras(base, c.Extra)
}

// SplitExtras decodes the object in data and drops the known member names,
// returning whatever is left.
func SplitExtras(data []byte, known ...string) (Extras, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Extras(all), nil
}

// MergeExtras adds extra members to an encoded JSON object. Modeled
// fields win over extras with the same name.
func MergeExtras(base []byte, extra Extras) ([]byte, error) {
	if len(extra) == 0 {
		return base, nil
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(base, &known); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := known[k]; !ok {
			known[k] = v
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(known); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
