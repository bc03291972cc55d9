package notes

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// VisualSettings is the session-scoped configuration selected once per
// batch. It is a read-only input to prompt synthesis; no unit owns it.
type VisualSettings struct {
	// StyleID selects a style preset from the registry.
	StyleID string
	// ColorTheme overrides the style's default color palette when non-empty.
	ColorTheme string
	// Watermark is optional text appended to every generated prompt.
	Watermark string
}

// Style is one visual style preset.
type Style struct {
	// ID is the style identifier referenced by VisualSettings.
	ID string `yaml:"id"`
	// Description is the style's descriptive text inserted into prompts.
	Description string `yaml:"description"`
}

// DefaultStyleID is used when a requested style is not in the registry.
const DefaultStyleID = "sketch"

// builtinStyles are the always-available presets. A YAML styles file can
// add to or override them per deployment.
var builtinStyles = []Style{
	{
		ID:          "sketch",
		Description: "手绘笔记风格，黑色钢笔线条搭配马克笔高亮，像认真学生的课堂笔记",
	},
	{
		ID:          "watercolor",
		Description: "清新水彩风格，柔和晕染的色块，留白充足，文字区域干净",
	},
	{
		ID:          "flat",
		Description: "扁平插画风格，简洁几何图形，大色块，现代信息图气质",
	},
	{
		ID:          "blackboard",
		Description: "黑板报风格，深色背景配彩色粉笔字效果，标题带装饰边框",
	},
}

// StyleRegistry resolves style ids to presets. Construct with
// DefaultStyleRegistry or LoadStyleRegistry; the registry is immutable
// afterwards and safe for concurrent reads.
type StyleRegistry struct {
	styles map[string]Style
}

// DefaultStyleRegistry returns a registry with only the built-in presets.
func DefaultStyleRegistry() *StyleRegistry {
	registry := &StyleRegistry{styles: make(map[string]Style, len(builtinStyles))}
	for _, style := range builtinStyles {
		registry.styles[style.ID] = style
	}
	return registry
}

// LoadStyleRegistry builds a registry from the built-ins merged with the
// presets in a YAML file. File entries override built-ins with the same id.
// An empty path returns the default registry.
func LoadStyleRegistry(path string) (*StyleRegistry, error) {
	registry := DefaultStyleRegistry()
	if path == "" {
		return registry, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("notes: failed to read styles file: %w", err)
	}

	var loaded struct {
		Styles []Style `yaml:"styles"`
	}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("notes: failed to parse styles file %s: %w", path, err)
	}

	for _, style := range loaded.Styles {
		if style.ID == "" {
			return nil, fmt.Errorf("notes: styles file %s contains a preset without an id", path)
		}
		registry.styles[style.ID] = style
	}
	return registry, nil
}

// Resolve returns the preset for the given id, falling back to the default
// style for unrecognized ids. Resolution never fails: prompt synthesis must
// be total over its inputs.
func (r *StyleRegistry) Resolve(id string) Style {
	if style, ok := r.styles[id]; ok {
		return style
	}
	return r.styles[DefaultStyleID]
}

// Has reports whether the registry contains a preset with the given id.
func (r *StyleRegistry) Has(id string) bool {
	_, ok := r.styles[id]
	return ok
}

// IDs returns all registered style ids, sorted.
func (r *StyleRegistry) IDs() []string {
	ids := make([]string, 0, len(r.styles))
	for id := range r.styles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
