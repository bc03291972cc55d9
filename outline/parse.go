package outline

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"visualnotes/core"
)

// Fallback outline content substituted when a received response cannot be
// parsed into a valid structure. The unit still reaches its review stage
// with this placeholder so the user can retry or edit manually.
const (
	FallbackTitle          = "解析失败"
	fallbackModuleHeading  = "解析说明"
	fallbackModuleContent  = "AI 返回的内容无法解析为结构化大纲，请重试或手动编辑。"
	fallbackSummaryContext = "原始内容未能成功整理"
)

// wire types mirror the JSON shape the completion service is instructed to
// return. They are decoded first and validated before synthetic module ids
// are assigned.
type wireModule struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type wireStructure struct {
	Title          string       `json:"title"`
	SummaryContext string       `json:"summary_context"`
	ThemeKeywords  []string     `json:"visual_theme_keywords"`
	Modules        []wireModule `json:"modules"`
}

// StripCodeFences removes surrounding markdown code-fence markup that
// completion services often wrap around JSON payloads, plus any prose
// outside the fenced block. This is a pure function.
func StripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)

	// Prefer the content of an explicit fenced block when present.
	if start := strings.Index(trimmed, "```"); start >= 0 {
		rest := trimmed[start+3:]
		// Drop an optional language tag on the fence line ("json", "JSON").
		if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
			tag := strings.TrimSpace(rest[:newline])
			if tag == "" || strings.EqualFold(tag, "json") {
				rest = rest[newline+1:]
			}
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}

	return trimmed
}

// Parse validates a raw completion response as a structured outline.
//
// This is the tagged-result parser for the structuring phase: it returns
// either a validated *Structure with synthetic module ids assigned, or a
// *core.MalformedResponseError describing the shape defect. It never
// panics and never returns any other error type.
func Parse(raw string) (*Structure, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, core.NewMalformedResponseError("completion", "empty response")
	}

	var wire wireStructure
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, core.NewMalformedResponseError("completion", "invalid JSON: "+err.Error())
	}

	if len(wire.Modules) == 0 {
		return nil, core.NewMalformedResponseError("completion", "missing or empty modules list")
	}

	structure := &Structure{
		Title:          strings.TrimSpace(wire.Title),
		SummaryContext: strings.TrimSpace(wire.SummaryContext),
		ThemeKeywords:  wire.ThemeKeywords,
	}
	for _, m := range wire.Modules {
		structure.Modules = append(structure.Modules, Module{
			ID:      uuid.NewString(),
			Heading: strings.TrimSpace(m.Heading),
			Content: strings.TrimSpace(m.Content),
		})
	}
	return structure, nil
}

// FallbackStructure returns the fixed placeholder outline substituted for a
// malformed structuring response. Each call assigns a fresh module id; the
// content is otherwise constant.
func FallbackStructure() *Structure {
	return &Structure{
		Title:          FallbackTitle,
		SummaryContext: fallbackSummaryContext,
		Modules: []Module{
			{
				ID:      uuid.NewString(),
				Heading: fallbackModuleHeading,
				Content: fallbackModuleContent,
			},
		},
	}
}
