package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
)

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/tool_followup.txt
	toolFollowUpRaw string

	//go:embed template/tool_call_note.txt
	toolCallNoteRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System       string
	ToolFollowUp string
	ToolCallNote string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System:       strings.TrimSpace(systemRaw),
		ToolFollowUp: strings.TrimSpace(toolFollowUpRaw),
		ToolCallNote: strings.TrimSpace(toolCallNoteRaw),
	}
}

func (p PromptSet) Validate() error {
	switch {
	case strings.TrimSpace(p.System) == "":
		return fmt.Errorf("%w: system", contractx.ErrPromptMissing)
	case !strings.Contains(p.ToolFollowUp, "{result}"):
		return fmt.Errorf("%w: tool follow-up needs a {result} placeholder", contractx.ErrPromptMissing)
	case !strings.Contains(p.ToolCallNote, "{tool}"):
		return fmt.Errorf("%w: tool call note needs a {tool} placeholder", contractx.ErrPromptMissing)
	}
	return nil
}

// FollowUp embeds a raw tool result into the summarisation request.
func (p PromptSet) FollowUp(result string) string {
	return strings.ReplaceAll(p.ToolFollowUp, "{result}", result)
}

func (p PromptSet) CallNote(tool, arguments string) string {
	return strings.NewReplacer("{tool}", tool, "{arguments}", arguments).Replace(p.ToolCallNote)
}
