// Package session wires the pipeline components together and exposes the
// batch operations a frontend drives: split, organize, design, paint,
// per-unit retry, and review-stage edits.
package session

import (
	"context"
	"fmt"

	"visualnotes/core"
	"visualnotes/imagegen"
	"visualnotes/llm"
	"visualnotes/logging"
	"visualnotes/notes"
	"visualnotes/outline"
	"visualnotes/scheduler"
	"visualnotes/splitter"
)

// ImageRenderer is the rendering capability the session depends on.
// *imagegen.Renderer satisfies it.
type ImageRenderer interface {
	Render(ctx context.Context, prompt, styleID string) (string, error)
}

// Components are the wired dependencies of a Session. Tests construct these
// over fakes; production code uses New.
type Components struct {
	Splitter  *splitter.Splitter
	Extractor *outline.Extractor
	Renderer  ImageRenderer
	Styles    *notes.StyleRegistry
	Scheduler *scheduler.Scheduler
}

// Session holds one batch of note units and the components that move them
// through the pipeline. Batch operations are not safe to overlap with each
// other; per-unit concurrency inside a wave is handled internally.
type Session struct {
	logger   *logging.Logger
	store    *notes.Store
	settings notes.VisualSettings

	splitter  *splitter.Splitter
	extractor *outline.Extractor
	renderer  ImageRenderer
	styles    *notes.StyleRegistry
	sched     *scheduler.Scheduler
}

// New builds a Session with real components from validated configuration.
// Configuration problems surface here, before any unit is marked as
// processing.
func New(config *core.Config, logger *logging.Logger) (*Session, error) {
	if config == nil {
		return nil, core.ErrMissingConfig("OPENAI_API_KEY")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	completer, err := llm.NewClient(config)
	if err != nil {
		return nil, err
	}
	split, err := splitter.NewSplitter(completer, logger)
	if err != nil {
		return nil, err
	}
	extractor, err := outline.NewExtractor(completer, logger)
	if err != nil {
		return nil, err
	}
	backend, err := imagegen.NewBackend(config)
	if err != nil {
		return nil, err
	}
	renderer, err := imagegen.NewRenderer(backend, logger, config.RenderMaxAttempts)
	if err != nil {
		return nil, err
	}

	styles := notes.DefaultStyleRegistry()
	if config.StylesFile != "" {
		styles, err = notes.LoadStyleRegistry(config.StylesFile)
		if err != nil {
			return nil, err
		}
	}

	sess, err := NewWithComponents(logger, Components{
		Splitter:  split,
		Extractor: extractor,
		Renderer:  renderer,
		Styles:    styles,
		Scheduler: scheduler.New(logger, config.RenderChunkSize),
	})
	if err != nil {
		return nil, err
	}
	sess.UpdateSettings(notes.VisualSettings{
		StyleID:    config.StyleID,
		ColorTheme: config.ColorTheme,
		Watermark:  config.Watermark,
	})
	return sess, nil
}

// NewWithComponents builds a Session over pre-wired components.
func NewWithComponents(logger *logging.Logger, c Components) (*Session, error) {
	if c.Splitter == nil || c.Extractor == nil || c.Renderer == nil {
		return nil, fmt.Errorf("session: splitter, extractor, and renderer are required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if c.Styles == nil {
		c.Styles = notes.DefaultStyleRegistry()
	}
	if c.Scheduler == nil {
		c.Scheduler = scheduler.New(logger, scheduler.DefaultChunkSize)
	}
	return &Session{
		logger:    logger.Named("session"),
		store:     notes.NewStore(),
		settings:  notes.VisualSettings{StyleID: notes.DefaultStyleID},
		splitter:  c.Splitter,
		extractor: c.Extractor,
		renderer:  c.Renderer,
		styles:    c.Styles,
		sched:     c.Scheduler,
	}, nil
}

// Settings returns the current session-scoped visual settings.
func (s *Session) Settings() notes.VisualSettings {
	return s.settings
}

// UpdateSettings replaces the visual settings. The resolved style falls
// back to the default when the id is unknown; settings apply to whichever
// design steps run after the change, never retroactively.
func (s *Session) UpdateSettings(settings notes.VisualSettings) {
	settings.StyleID = s.styles.Resolve(settings.StyleID).ID
	s.settings = settings
}

// Styles returns the style registry backing this session.
func (s *Session) Styles() *notes.StyleRegistry {
	return s.styles
}

// Units returns copies of all units in display order.
func (s *Session) Units() []*notes.Unit {
	return s.store.Units()
}

// Unit returns a copy of one unit by id.
func (s *Session) Unit(id string) (*notes.Unit, bool) {
	return s.store.Unit(id)
}

// FailedUnits returns copies of the units currently in the failed stage.
func (s *Session) FailedUnits() []*notes.Unit {
	return s.store.UnitsInStage(notes.StageFailed)
}

// EditStructure replaces a unit's outline with a user-edited one. Only
// legal while the unit is reviewing its structure.
func (s *Session) EditStructure(id string, structure *outline.Structure) error {
	if structure == nil {
		return fmt.Errorf("session: structure cannot be nil")
	}
	var stageErr error
	err := s.store.ApplyUpdate(id, func(u *notes.Unit) {
		if !u.StructureEditable() {
			stageErr = fmt.Errorf("session: unit %s is in stage %s; structure is not editable", id, u.Stage)
			return
		}
		u.Structure = structure.Clone()
	})
	if err != nil {
		return err
	}
	return stageErr
}

// EditPrompt replaces a unit's generated prompt with a user-edited one.
// Only legal while the unit is reviewing its prompt.
func (s *Session) EditPrompt(id, prompt string) error {
	var stageErr error
	err := s.store.ApplyUpdate(id, func(u *notes.Unit) {
		if !u.PromptEditable() {
			stageErr = fmt.Errorf("session: unit %s is in stage %s; prompt is not editable", id, u.Stage)
			return
		}
		u.GeneratedPrompt = prompt
	})
	if err != nil {
		return err
	}
	return stageErr
}
