package matching

import (
	"testing"

	"intern-match-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSkillGaps(t *testing.T) {
	analysis := AnalyzeSkillGaps(
		[]string{"python"},
		[]string{"python", "docker", "kubernetes", "figma"},
	)

	assert.ElementsMatch(t, []string{"docker", "kubernetes", "figma"}, analysis.MissingSkills)
	assert.Equal(t, 3, analysis.TotalMissing)
	assert.InDelta(t, 75.0, analysis.GapPct, 1e-9)
	assert.ElementsMatch(t, []string{"docker", "kubernetes"}, analysis.CategorizedGaps["devops_tools"])
	assert.ElementsMatch(t, []string{"figma"}, analysis.CategorizedGaps["design_tools"])
}

func TestAnalyzeSkillGapsNoJobSkills(t *testing.T) {
	analysis := AnalyzeSkillGaps([]string{"python"}, nil)
	assert.Zero(t, analysis.TotalMissing)
	assert.Zero(t, analysis.GapPct)
}

func TestSuggestSkillImprovements(t *testing.T) {
	profile := &types.ResumeProfile{Skills: []string{"python"}}
	jobs := []*types.JobPosting{
		{Description: "Skills: python, docker"},
		{Description: "Skills: docker, kubernetes"},
		{Description: "Skills: docker"},
	}

	plan := SuggestSkillImprovements(profile, jobs)

	require.NotEmpty(t, plan.MissingSkills)
	// docker被3个岗位要求，排第一
	assert.Equal(t, "docker", plan.MissingSkills[0].Skill)
	assert.Equal(t, 3, plan.MissingSkills[0].Jobs)
	assert.Contains(t, plan.TopPrioritySkills, "docker")
	assert.Contains(t, plan.MediumPriority, "docker")
	assert.Contains(t, plan.LowPriority, "kubernetes")
}
