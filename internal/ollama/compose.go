package ollama

import "strings"

// Turn is one immutable turn of conversation history. Ordering across a
// slice of turns is chronological and significant.
type Turn struct {
	Role    string
	Content string
	Images  []string
}

// Role labels for the single-prompt transcript. Turns with any other
// role are dropped silently from both renderings.
var roleLabels = map[string]string{
	"system":    "System",
	"user":      "User",
	"assistant": "Assistant",
	"tool":      "Tool",
}

// ComposeChat renders history plus the live turn for the conversational
// endpoint. Historical turns are emitted in order as text only; images
// are attached exclusively to the live turn, since only the live turn's
// images are guaranteed to be inspected by the backend.
func ComposeChat(history []Turn, prompt string, images []string) []ChatMessage {
	messages := make([]ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		if _, ok := roleLabels[turn.Role]; !ok {
			continue
		}
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: prompt, Images: images})
	return messages
}

// ComposeGenerate renders the same logical request for the single-prompt
// endpoint. The last system turn becomes the dedicated system field; the
// remaining history is flattened into a "Role: content" transcript ended
// by the live prompt and an Assistant: cue. Images ride at the top level.
func ComposeGenerate(history []Turn, prompt string, images []string) *GenerateRequest {
	system := ""
	systemIdx := -1
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "system" {
			system = history[i].Content
			systemIdx = i
			break
		}
	}

	var lines []string
	for i, turn := range history {
		if i == systemIdx {
			continue
		}
		label, ok := roleLabels[turn.Role]
		if !ok {
			continue
		}
		lines = append(lines, label+": "+turn.Content)
	}

	composed := prompt
	if len(lines) > 0 {
		lines = append(lines, "User: "+prompt, "Assistant:")
		composed = strings.Join(lines, "\n")
	}

	return &GenerateRequest{
		Prompt: composed,
		System: system,
		Images: images,
	}
}
