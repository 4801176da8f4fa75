package matching

import (
	"regexp"
	"strings"
)

// 标签行模式：捕获冒号后的同行内容，遇到项目符号或换行为止
var skillLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)skills?:?\s*([^•\n]+)`),
	regexp.MustCompile(`(?i)technologies?:?\s*([^•\n]+)`),
	regexp.MustCompile(`(?i)tools?:?\s*([^•\n]+)`),
	regexp.MustCompile(`(?i)programming\s+languages?:?\s*([^•\n]+)`),
	regexp.MustCompile(`(?i)frameworks?:?\s*([^•\n]+)`),
	regexp.MustCompile(`(?i)libraries?:?\s*([^•\n]+)`),
}

// 标签行捕获内容的分隔符
var skillDelimiter = regexp.MustCompile(`[,•\n\t]+`)

// ExtractSkills 从自由文本中提取技能词条
// 两条路径：分类表子串扫描 + 标签行捕获，合并去重（不区分大小写），
// 保留首次出现的写法。结果顺序确定，便于测试与持久化比对
func ExtractSkills(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	textLower := strings.ToLower(text)

	var found []string
	seen := make(map[string]struct{})
	add := func(skill string) {
		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		found = append(found, skill)
	}

	// 分类表扫描：技能词条作为子串出现即视为命中
	for _, category := range skillTaxonomy {
		for _, skill := range category.Skills {
			if strings.Contains(textLower, strings.ToLower(skill)) {
				add(skill)
			}
		}
	}

	// 标签行捕获："Skills: Java, React, Git" 一类的显式列举
	for _, pattern := range skillLabelPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			for _, token := range skillDelimiter.Split(match[1], -1) {
				token = strings.TrimSpace(token)
				// 过短的token基本是噪声（"a"、"of"之类）
				if len(token) > 2 {
					add(token)
				}
			}
		}
	}

	return found
}
