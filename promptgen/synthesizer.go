// Package promptgen assembles the image generation instruction for one note
// unit from its structured outline and the session's visual settings.
//
// Synthesis is a pure local transform: no external calls, no failure mode,
// and byte-for-byte reproducible output for identical inputs. Missing or
// empty outline fields are replaced with named defaults instead of causing
// errors.
package promptgen

import (
	"fmt"
	"strings"

	"visualnotes/notes"
	"visualnotes/outline"
)

// Named defaults substituted for missing outline fields.
const (
	DefaultTitle    = "untitled"
	DefaultKeywords = "abstract concepts"
)

// DefaultPalette is the color clause used when the settings carry no
// explicit color theme.
const DefaultPalette = "温暖的米白底色，搭配柔和的蓝绿主色与少量橙色点缀"

const rolePreamble = "为以下内容绘制一张单页图解笔记（visual note），整体像一位插画师精心手绘的知识卡片。"

const legibilityRules = `文字规则：
- 所有文字必须清晰可读、笔画完整，不得出现乱码或扭曲的字形
- 标题醒目，正文字号适中，文字与背景保持高对比度`

const layoutRules = `版面规则：
- 单页构图，标题置于顶部，内容分区块自上而下排列
- 区块之间留有呼吸空间，用简单的分隔线或图形区分
- 每个内容区块配一个相关的小图标或小插图`

// Synthesize builds the generation instruction string.
//
// The sections are concatenated in a fixed order: role preamble, style
// description, color palette, decorations, legibility rules, layout rules,
// numbered content, watermark. Callers rely on the reproducibility for
// caching and testing.
func Synthesize(structure *outline.Structure, settings notes.VisualSettings, style notes.Style) string {
	var b strings.Builder

	b.WriteString(rolePreamble)
	b.WriteString("\n\n")

	b.WriteString("绘画风格：")
	b.WriteString(style.Description)
	b.WriteString("\n")

	b.WriteString("配色：")
	if settings.ColorTheme != "" {
		b.WriteString(settings.ColorTheme)
	} else {
		b.WriteString(DefaultPalette)
	}
	b.WriteString("\n")

	b.WriteString("装饰元素：围绕「")
	b.WriteString(keywordsClause(structure))
	b.WriteString("」设计点缀图案\n\n")

	b.WriteString(legibilityRules)
	b.WriteString("\n\n")
	b.WriteString(layoutRules)
	b.WriteString("\n\n")

	writeContentSection(&b, structure)

	if settings.Watermark != "" {
		b.WriteString("\n在右下角用小号文字标注水印：")
		b.WriteString(settings.Watermark)
		b.WriteString("\n")
	}

	return b.String()
}

func keywordsClause(structure *outline.Structure) string {
	var kept []string
	if structure != nil {
		for _, keyword := range structure.ThemeKeywords {
			keyword = strings.TrimSpace(keyword)
			if keyword != "" {
				kept = append(kept, keyword)
			}
		}
	}
	if len(kept) == 0 {
		return DefaultKeywords
	}
	return strings.Join(kept, "、")
}

func writeContentSection(b *strings.Builder, structure *outline.Structure) {
	title := DefaultTitle
	summary := ""
	var modules []outline.Module
	if structure != nil {
		if t := strings.TrimSpace(structure.Title); t != "" {
			title = t
		}
		summary = strings.TrimSpace(structure.SummaryContext)
		modules = structure.Modules
	}

	b.WriteString("笔记内容：\n")
	b.WriteString("标题：")
	b.WriteString(title)
	b.WriteString("\n")
	if summary != "" {
		b.WriteString("概述：")
		b.WriteString(summary)
		b.WriteString("\n")
	}
	for i, module := range modules {
		heading := strings.TrimSpace(module.Heading)
		content := strings.TrimSpace(module.Content)
		fmt.Fprintf(b, "%d. %s：%s\n", i+1, heading, content)
	}
}
