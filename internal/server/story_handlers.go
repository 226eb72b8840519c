package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agenthands/storyweave/internal/llm"
	"github.com/agenthands/storyweave/internal/story"
	"github.com/gin-gonic/gin"
)

type GenerateStoryRequest struct {
	CurrentNode story.StoryNode   `json:"currentNode"`
	ParentNodes []story.StoryNode `json:"parentNodes"`
	ChildNodes  []story.StoryNode `json:"childNodes"`
	GameConfig  story.GameConfig  `json:"gameConfig"`
	AllNodes    []story.StoryNode `json:"allNodes"`
	AllEdges    []story.Edge      `json:"allEdges"`
	Provider    string            `json:"provider"`
}

type GenerateStoryResponse struct {
	GeneratedStory string            `json:"generatedStory"`
	Suggestions    StorySuggestions  `json:"suggestions"`
	Metadata       GenerationDetails `json:"metadata"`
}

type StorySuggestions struct {
	WordCount int    `json:"wordCount"`
	Provider  string `json:"provider"`
}

type GenerationDetails struct {
	NodeID      string    `json:"nodeId"`
	Timestamp   time.Time `json:"timestamp"`
	ParentCount int       `json:"parentCount"`
	ChildCount  int       `json:"childCount"`
}

func (s *Server) GenerateStory(c *gin.Context) {
	var req GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.CurrentNode.ID == "" {
		respondError(c, fmt.Errorf("%w: currentNode.id is required", errBadRequest))
		return
	}
	if req.Provider == "" {
		req.Provider = string(llm.ProviderClaude)
	}
	provider, err := llm.ParseProvider(req.Provider)
	if err != nil {
		respondError(c, err)
		return
	}

	prompt := story.BuildPrompt(story.PromptContext{
		Current:  req.CurrentNode,
		Parents:  req.ParentNodes,
		Children: req.ChildNodes,
		Config:   req.GameConfig,
	})

	text, err := s.llm.Generate(c.Request.Context(), provider, prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	text = strings.TrimSpace(text)

	c.JSON(http.StatusOK, GenerateStoryResponse{
		GeneratedStory: text,
		Suggestions: StorySuggestions{
			WordCount: len(strings.Fields(text)),
			Provider:  req.Provider,
		},
		Metadata: GenerationDetails{
			NodeID:      req.CurrentNode.ID,
			Timestamp:   time.Now(),
			ParentCount: len(req.ParentNodes),
			ChildCount:  len(req.ChildNodes),
		},
	})
}

type AnalyzeStoryRequest struct {
	Nodes []story.StoryNode `json:"nodes"`
	Edges []story.Edge      `json:"edges"`
}

func (s *Server) AnalyzeStory(c *gin.Context) {
	var req AnalyzeStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	analysis, err := story.Analyze(req.Nodes, req.Edges)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
