package imagegen

// Style-reinforcement clauses appended to the generation instruction per
// style id. This is a deliberately small closed set: the clause nudges the
// image model back toward the selected style when long instructions dilute
// it. Unrecognized ids get the default clause.
var styleReinforcements = map[string]string{
	"sketch":     "整体保持手绘质感，线条自然，像纸上真实绘制。",
	"watercolor": "整体保持水彩质感，颜色边缘柔和晕染。",
	"flat":       "整体保持扁平矢量插画质感，无渐变阴影。",
	"blackboard": "整体保持黑板粉笔画质感，深色背景。",
}

const defaultReinforcement = "整体风格统一协调，画面完整美观。"

// ReinforcementClause returns the style-reinforcement clause for a style id.
// This is a pure function; unknown ids map to the default clause.
func ReinforcementClause(styleID string) string {
	if clause, ok := styleReinforcements[styleID]; ok {
		return clause
	}
	return defaultReinforcement
}
