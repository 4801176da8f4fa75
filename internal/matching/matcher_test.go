package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSkillsExactCaseInsensitive(t *testing.T) {
	result := MatchSkills([]string{"Python", "Docker"}, []string{"python", "DOCKER"})

	assert.ElementsMatch(t, []string{"python", "docker"}, result.ExactMatches)
	assert.Empty(t, result.PartialMatches)
	assert.Empty(t, result.MissingSkills)
	assert.InDelta(t, 100.0, result.ExactPct, 1e-9)
	assert.InDelta(t, 100.0, result.TotalPct, 1e-9)
}

func TestMatchSkillsPartialSubstring(t *testing.T) {
	// 双向子串：岗位"sql" ⊂ 简历"postgresql"，岗位"machine learning basics" ⊃ 简历无
	result := MatchSkills([]string{"PostgreSQL"}, []string{"sql"})

	assert.Empty(t, result.ExactMatches)
	assert.Equal(t, []string{"sql"}, result.PartialMatches)
	assert.InDelta(t, 100.0, result.PartialPct, 1e-9)
}

func TestMatchSkillsCategoryBucket(t *testing.T) {
	// mysql 与 mongodb 同属 databases，既非精确也非子串
	result := MatchSkills([]string{"mysql"}, []string{"mongodb"})

	assert.Empty(t, result.ExactMatches)
	assert.Empty(t, result.PartialMatches)
	assert.Equal(t, []string{"mongodb"}, result.CategoryMatches)
	assert.InDelta(t, 100.0, result.CategoryPct, 1e-9)
	assert.Empty(t, result.MissingSkills)
}

func TestMatchSkillsBucketsAreMutuallyExclusive(t *testing.T) {
	// react 精确命中后不得再进partial或category
	result := MatchSkills([]string{"react"}, []string{"react"})

	assert.Equal(t, []string{"react"}, result.ExactMatches)
	assert.Empty(t, result.PartialMatches)
	assert.Empty(t, result.CategoryMatches)
}

func TestMatchSkillsTotalPctCanExceedHundred(t *testing.T) {
	// 2个精确 + 1个分类，共3个岗位技能：66.7 + 33.3 = 100；再加部分匹配可超100
	// java精确、react精确、mongodb走分类(简历有mysql)、spring走部分(简历有spring boot)
	result := MatchSkills(
		[]string{"java", "react", "mysql", "spring boot"},
		[]string{"java", "react", "mongodb", "spring"},
	)

	assert.ElementsMatch(t, []string{"java", "react"}, result.ExactMatches)
	assert.Equal(t, []string{"spring"}, result.PartialMatches)
	assert.Equal(t, []string{"mongodb"}, result.CategoryMatches)
	assert.InDelta(t, 50.0, result.ExactPct, 1e-6)
	assert.InDelta(t, 25.0, result.PartialPct, 1e-6)
	assert.InDelta(t, 25.0, result.CategoryPct, 1e-6)
	assert.InDelta(t, 100.0, result.TotalPct, 1e-6)
	assert.Empty(t, result.MissingSkills)
}

func TestMatchSkillsMissingKeepsOriginalCasing(t *testing.T) {
	result := MatchSkills([]string{"python"}, []string{"Python", "Haskell"})

	assert.Equal(t, []string{"python"}, result.ExactMatches)
	assert.Equal(t, []string{"Haskell"}, result.MissingSkills)
	assert.InDelta(t, 50.0, result.TotalPct, 1e-9)
}

func TestMatchSkillsEmptyJobSkills(t *testing.T) {
	result := MatchSkills([]string{"python"}, nil)

	assert.Empty(t, result.ExactMatches)
	assert.Zero(t, result.ExactPct)
	assert.Zero(t, result.TotalPct)
	assert.Empty(t, result.MissingSkills)
}

func TestMatchSkillsEmptyResumeSkills(t *testing.T) {
	result := MatchSkills(nil, []string{"python", "docker"})

	assert.Empty(t, result.ExactMatches)
	assert.Empty(t, result.PartialMatches)
	assert.Empty(t, result.CategoryMatches)
	assert.ElementsMatch(t, []string{"python", "docker"}, result.MissingSkills)
	assert.Zero(t, result.TotalPct)
}

func TestMatchSkillsDuplicateJobSkillsCountedOnce(t *testing.T) {
	result := MatchSkills([]string{"python"}, []string{"python", "Python"})

	// 档位内去重，但总数按输入算：1/2 = 50%
	assert.Equal(t, []string{"python"}, result.ExactMatches)
	assert.InDelta(t, 50.0, result.ExactPct, 1e-9)
}
