package story

import (
	"fmt"
	"sort"
	"strings"
)

const (
	defaultStoryTitle       = "Interactive Story"
	defaultStoryDescription = "A branching narrative adventure"
	noContent               = "(no content)"
	emptyContent            = "(empty)"
)

var defaultStatNames = [][2]string{
	{"health", "Health"},
	{"wealth", "Wealth"},
	{"happiness", "Happiness"},
	{"power", "Power"},
}

// PromptContext is everything the prompt builder looks at. Parents are
// ordered most distant first.
type PromptContext struct {
	Current  StoryNode
	Parents  []StoryNode
	Children []StoryNode
	Config   GameConfig
}

const guidelines = `**Writing guidelines:**
1. If there is an existing story, improve and expand it instead of replacing it
2. Connect naturally with the previous situations
3. Set up a situation that can lead into the next choices
4. Include vivid descriptions that stir the player's emotions
5. Keep it to an appropriate length of about 3 sentences
6. Maintain the overall tone and atmosphere of the game

Write only the story (no explanations or commentary):`

// BuildPrompt renders the generation prompt for ctx. The output depends only
// on its input.
func BuildPrompt(ctx PromptContext) string {
	title := ctx.Config.StoryTitle
	if title == "" {
		title = defaultStoryTitle
	}
	description := ctx.Config.StoryDescription
	if description == "" {
		description = defaultStoryDescription
	}

	currentStory := ctx.Current.Story
	if currentStory == "" {
		currentStory = emptyContent
	}

	var b strings.Builder
	b.WriteString("You are a professional interactive story writer. Using the information below, write an engaging and immersive story.\n\n")
	b.WriteString("**Game settings:**\n")
	fmt.Fprintf(&b, "- Title: %s\n", title)
	fmt.Fprintf(&b, "- Background: %s\n", description)
	fmt.Fprintf(&b, "- Stat system: %s\n\n", formatStatNames(ctx.Config.StatNames))
	b.WriteString("**Current node:**\n")
	fmt.Fprintf(&b, "- Title: %s\n", ctx.Current.Title())
	fmt.Fprintf(&b, "- Existing content: %s\n\n", currentStory)
	b.WriteString(parentSection(ctx.Parents))
	b.WriteString("\n\n")
	b.WriteString(childSection(ctx.Children))
	b.WriteString("\n\n")
	b.WriteString(guidelines)

	return b.String()
}

func parentSection(parents []StoryNode) string {
	if len(parents) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nPrevious situations:\n")
	for i, p := range parents {
		story := p.Story
		if story == "" {
			story = noContent
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, p.Title(), story)
	}
	return b.String()
}

// childSection lists only the choice text of each child so the model does
// not see content it has not reached yet.
func childSection(children []StoryNode) string {
	if len(children) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nPossible next choices:\n")
	for i, c := range children {
		choice := c.Choice
		if choice == "" {
			choice = c.Title()
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, choice)
	}
	return b.String()
}

func formatStatNames(names map[string]string) string {
	var pairs [][2]string
	if len(names) == 0 {
		pairs = defaultStatNames
	} else {
		keys := make([]string, 0, len(names))
		for k := range names {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pairs = append(pairs, [2]string{k, names[k]})
		}
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%s(%s)", p[0], p[1])
	}
	return strings.Join(parts, ", ")
}
