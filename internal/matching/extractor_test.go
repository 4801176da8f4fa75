package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkillsFromTaxonomy(t *testing.T) {
	text := "We are looking for a backend intern with Python, Docker and PostgreSQL experience."
	skills := ExtractSkills(text)

	assert.Contains(t, skills, "python")
	assert.Contains(t, skills, "docker")
	assert.Contains(t, skills, "postgresql")
}

func TestExtractSkillsCaseInsensitive(t *testing.T) {
	skills := ExtractSkills("Required: PYTHON and KUBERNETES")
	assert.Contains(t, skills, "python")
	assert.Contains(t, skills, "kubernetes")
}

func TestExtractSkillsLabeledLine(t *testing.T) {
	text := "About the role.\nSkills: Vimscript, Lua-patterns, Zig\nApply now."
	skills := ExtractSkills(text)

	assert.Contains(t, skills, "Vimscript")
	assert.Contains(t, skills, "Lua-patterns")
	assert.Contains(t, skills, "Zig")
}

func TestExtractSkillsDropsShortTokens(t *testing.T) {
	skills := ExtractSkills("Tools: ab, cd, Terraform")
	assert.NotContains(t, skills, "ab")
	assert.NotContains(t, skills, "cd")
	// 分类表扫描先命中，保留的是表内的小写写法
	assert.Contains(t, skills, "terraform")
}

func TestExtractSkillsDeduplicates(t *testing.T) {
	text := "Python everywhere. Skills: Python, python\nTechnologies: PYTHON"
	skills := ExtractSkills(text)

	count := 0
	for _, s := range skills {
		if strings.EqualFold(s, "python") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractSkillsBulletStopsCapture(t *testing.T) {
	// 捕获在项目符号处截断，后一项走下一次匹配或分类扫描
	skills := ExtractSkills("Skills: Django • benefits include snacks")
	assert.Contains(t, skills, "django")
	assert.NotContains(t, skills, "benefits include snacks")
}

func TestExtractSkillsEmptyText(t *testing.T) {
	assert.Empty(t, ExtractSkills(""))
	assert.Empty(t, ExtractSkills("   \n\t"))
}
