// Package splitter decides whether raw input text should be divided into
// multiple independent note units and performs the division.
//
// The split proposal comes from an external analysis call, but the result
// is governed by a strict local policy with a total fallback: whatever the
// external service returns (or fails to return), the splitter always
// produces at least one usable segment.
package splitter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"visualnotes/core"
	"visualnotes/logging"
	"visualnotes/outline"
)

// MinSegmentLen is the minimum content length (in runes) for a proposed
// segment to be kept. Shorter segments would produce near-empty notes.
const MinSegmentLen = 100

// MaxSegments caps how many units one split may produce, which in turn
// bounds the structuring phase's implicit concurrency.
const MaxSegments = 9

// splitPromptFormat asks the analysis service for a JSON array of segment
// strings. Topic diversity, density, and length are the decision criteria;
// returning the whole text as a single element means "no split needed".
const splitPromptFormat = `请判断下面的文本是否应该拆分为多张独立的图解笔记。

判断标准：主题是否多样、信息密度、篇幅长短。如果内容聚焦单一主题或篇幅较短，不要拆分。

要求：
1. 只输出一个 JSON 字符串数组，按原文顺序给出每段的完整文字，不要输出任何其他内容。
2. 最多拆分为 %d 段，每段必须是原文中连续的内容，合计覆盖全部原文。
3. 不需要拆分时，输出只含原文整体的单元素数组。

文本：
%s`

// Splitter performs the split-or-not decision for one raw input.
type Splitter struct {
	completer core.TextCompleter
	logger    *logging.Logger
}

// NewSplitter creates a Splitter using the given analysis capability.
func NewSplitter(completer core.TextCompleter, logger *logging.Logger) (*Splitter, error) {
	if completer == nil {
		return nil, fmt.Errorf("splitter: completer cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Splitter{
		completer: completer,
		logger:    logger.Named("splitter"),
	}, nil
}

// Split returns the ordered list of text segments for the input.
//
// The operation never fails: any external failure or unusable proposal
// degrades to a single segment equal to the original input verbatim.
// Inputs already below MinSegmentLen skip the external call entirely.
func (s *Splitter) Split(ctx context.Context, text string) []string {
	if len([]rune(text)) < MinSegmentLen {
		return []string{text}
	}

	prompt := fmt.Sprintf(splitPromptFormat, MaxSegments, text)
	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("split analysis call failed, keeping whole text", zap.Error(err))
		return []string{text}
	}

	segments := s.validateProposal(raw, text)
	s.logger.Info("split decided",
		zap.Int("segments", len(segments)),
		zap.Int("input_len", len([]rune(text))),
	)
	return segments
}

// validateProposal applies the local acceptance policy to the external
// proposal. Any defect degrades to the single-segment whole text.
func (s *Splitter) validateProposal(raw, text string) []string {
	cleaned := outline.StripCodeFences(raw)

	var proposed []string
	if err := json.Unmarshal([]byte(cleaned), &proposed); err != nil {
		s.logger.Warn("split proposal was not a JSON array, keeping whole text",
			zap.String("reason", err.Error()),
		)
		return []string{text}
	}

	kept := make([]string, 0, len(proposed))
	for _, segment := range proposed {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		// A single segment covering the whole text is the explicit
		// "no split needed" answer; accept it regardless of length.
		if len(proposed) == 1 && segment == strings.TrimSpace(text) {
			return []string{text}
		}
		if len([]rune(segment)) < MinSegmentLen {
			continue
		}
		kept = append(kept, segment)
		if len(kept) == MaxSegments {
			break
		}
	}

	if len(kept) == 0 {
		s.logger.Warn("all proposed segments below minimum length, keeping whole text",
			zap.Int("proposed", len(proposed)),
		)
		return []string{text}
	}
	return kept
}
