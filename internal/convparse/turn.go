package convparse

import "strings"

// Role of a chat turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation, in order.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript concatenates the content of all turns, newline-separated, in
// conversation order.
func Transcript(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		if t.Content == "" {
			continue
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// UserTranscript concatenates only the user-authored turns. Extraction rules
// run against this so assistant echoes don't create phantom matches.
func UserTranscript(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		if t.Role != RoleUser || t.Content == "" {
			continue
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}
