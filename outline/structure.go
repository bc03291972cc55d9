// Package outline transforms a note unit's raw text into a structured
// outline via a text completion call, owning the JSON shape validation and
// the fallback-on-malformed-response policy.
package outline

import (
	"fmt"

	"github.com/google/uuid"
)

// Module is one heading+content block of a structured outline.
type Module struct {
	// ID is a stable synthetic identifier assigned when the outline is
	// accepted, used to address the module in later edit operations.
	ID string `json:"id"`
	// Heading is the module title
	Heading string `json:"heading"`
	// Content is the module body text
	Content string `json:"content"`
}

// Structure is the validated outline extracted from one unit's text.
type Structure struct {
	// Title is the overall note title
	Title string `json:"title"`
	// SummaryContext is a short summary framing the note's content
	SummaryContext string `json:"summary_context"`
	// ThemeKeywords are visual theme hints for decoration selection
	ThemeKeywords []string `json:"visual_theme_keywords"`
	// Modules is the ordered list of content blocks
	Modules []Module `json:"modules"`
}

// Clone returns a deep copy of the structure. Units hand out copies so
// concurrent readers never alias the stored outline.
func (s *Structure) Clone() *Structure {
	if s == nil {
		return nil
	}
	clone := &Structure{
		Title:          s.Title,
		SummaryContext: s.SummaryContext,
	}
	if s.ThemeKeywords != nil {
		clone.ThemeKeywords = append([]string(nil), s.ThemeKeywords...)
	}
	if s.Modules != nil {
		clone.Modules = append([]Module(nil), s.Modules...)
	}
	return clone
}

// AddModule appends a new module with a fresh synthetic id and returns it.
func (s *Structure) AddModule(heading, content string) Module {
	module := Module{
		ID:      uuid.NewString(),
		Heading: heading,
		Content: content,
	}
	s.Modules = append(s.Modules, module)
	return module
}

// UpdateModule replaces the heading and content of the module with the given
// id. Returns an error if no module has that id.
func (s *Structure) UpdateModule(id, heading, content string) error {
	for i := range s.Modules {
		if s.Modules[i].ID == id {
			s.Modules[i].Heading = heading
			s.Modules[i].Content = content
			return nil
		}
	}
	return fmt.Errorf("outline: no module with id %s", id)
}

// RemoveModule deletes the module with the given id, preserving the order of
// the remaining modules. Returns an error if no module has that id.
func (s *Structure) RemoveModule(id string) error {
	for i := range s.Modules {
		if s.Modules[i].ID == id {
			s.Modules = append(s.Modules[:i], s.Modules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("outline: no module with id %s", id)
}
