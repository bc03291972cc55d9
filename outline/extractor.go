package outline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"visualnotes/core"
	"visualnotes/logging"
)

// DefaultContentBudget caps the instructed total length of the generated
// outline text, keeping downstream image prompts within model limits.
const DefaultContentBudget = 800

// extractionPromptFormat instructs the completion service to return the
// outline as a single JSON object. The response is untrusted; Parse owns
// validation.
const extractionPromptFormat = `你是一名视觉笔记设计师。请将下面的原文整理为适合绘制成一张图解笔记的结构化大纲。

要求：
1. 只输出一个 JSON 对象，不要输出任何其他文字。
2. JSON 格式为：{"title": "标题", "summary_context": "一句话概括", "visual_theme_keywords": ["关键词1", "关键词2"], "modules": [{"heading": "小节标题", "content": "小节内容"}]}
3. modules 为 2 到 6 个小节，全部文字总量不超过 %d 字。
4. visual_theme_keywords 给出 2 到 4 个适合做装饰图案的意象关键词。

原文：
%s`

// Extractor runs the structuring phase for one unit: one completion call,
// shape validation, and the fallback-on-malformed-response policy.
//
// Failure asymmetry, load-bearing for the stage machine: a transport error
// is returned to the caller (the unit's phase fails), while a received but
// malformed response is absorbed into FallbackStructure and the unit still
// advances with placeholder content.
type Extractor struct {
	completer     core.TextCompleter
	logger        *logging.Logger
	contentBudget int
}

// NewExtractor creates an Extractor using the given completion capability.
func NewExtractor(completer core.TextCompleter, logger *logging.Logger) (*Extractor, error) {
	if completer == nil {
		return nil, fmt.Errorf("outline: completer cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Extractor{
		completer:     completer,
		logger:        logger.Named("outline"),
		contentBudget: DefaultContentBudget,
	}, nil
}

// Extract transforms raw text into a structured outline.
//
// Returns an error only when the external call itself fails (wrapped as a
// core.TransportError). Any received response, however malformed, resolves
// to a non-nil Structure.
func (e *Extractor) Extract(ctx context.Context, text string) (*Structure, error) {
	prompt := fmt.Sprintf(extractionPromptFormat, e.contentBudget, text)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, core.NewTransportError("completion", err)
	}

	structure, parseErr := Parse(raw)
	if parseErr != nil {
		e.logger.Warn("structuring response malformed, using fallback outline",
			zap.Error(parseErr),
			zap.Int("response_len", len(raw)),
		)
		return FallbackStructure(), nil
	}

	e.logger.Debug("outline extracted",
		zap.String("title", structure.Title),
		zap.Int("modules", len(structure.Modules)),
	)
	return structure, nil
}
