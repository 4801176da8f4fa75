package matching

import (
	"sort"
	"strings"

	"intern-match-go/internal/types"
)

// SkillGapAnalysis 单个岗位的技能缺口分析
type SkillGapAnalysis struct {
	MissingSkills   []string            `json:"missing_skills"`
	CategorizedGaps map[string][]string `json:"categorized_gaps"`
	TotalMissing    int                 `json:"total_missing"`
	GapPct          float64             `json:"gap_percentage"`
}

// ImprovementPlan 面向一组目标岗位的技能提升建议
type ImprovementPlan struct {
	// (技能, 需求该技能的岗位数)，按岗位数降序
	MissingSkills []SkillDemand `json:"missing_skills"`

	// 需求最高的前5个缺失技能
	TopPrioritySkills []string `json:"top_priority_skills"`

	TotalMissingSkills int `json:"total_missing_skills"`

	// 按需求频次分档的学习计划
	HighPriority   []string `json:"high_priority"`
	MediumPriority []string `json:"medium_priority"`
	LowPriority    []string `json:"low_priority"`
}

// SkillDemand 缺失技能及需求它的岗位数
type SkillDemand struct {
	Skill string `json:"skill"`
	Jobs  int    `json:"jobs"`
}

// AnalyzeSkillGaps 找出简历相对岗位要求缺失的技能并按分类归组
// 这里的"缺失"只看精确匹配，比 MatchSkills 更严格：目的是学习建议
// 而不是打分，部分匹配的技能也值得补全
func AnalyzeSkillGaps(resumeSkills, jobSkills []string) SkillGapAnalysis {
	resumeLower := lowerSet(resumeSkills)

	var missing []string
	for _, jobSkill := range jobSkills {
		if _, ok := resumeLower[strings.ToLower(jobSkill)]; !ok {
			missing = append(missing, strings.ToLower(jobSkill))
		}
	}

	categorized := make(map[string][]string)
	for _, category := range skillTaxonomy {
		members := lowerSet(category.Skills)
		var gaps []string
		for _, skill := range missing {
			if _, ok := members[skill]; ok {
				gaps = append(gaps, skill)
			}
		}
		if len(gaps) > 0 {
			categorized[category.Name] = gaps
		}
	}

	analysis := SkillGapAnalysis{
		MissingSkills:   missing,
		CategorizedGaps: categorized,
		TotalMissing:    len(missing),
	}
	if len(jobSkills) > 0 {
		analysis.GapPct = float64(len(missing)) / float64(len(jobSkills)) * 100
	}
	return analysis
}

// SuggestSkillImprovements 汇总一组目标岗位的技能需求，给出学习优先级
func SuggestSkillImprovements(profile *types.ResumeProfile, targetJobs []*types.JobPosting) ImprovementPlan {
	resumeLower := lowerSet(profile.Skills)

	// 统计每个缺失技能被多少岗位要求
	demand := make(map[string]int)
	for _, job := range targetJobs {
		if job == nil {
			continue
		}
		for _, skill := range ExtractSkills(job.Description) {
			if _, have := resumeLower[strings.ToLower(skill)]; !have {
				demand[strings.ToLower(skill)]++
			}
		}
	}

	demands := make([]SkillDemand, 0, len(demand))
	for skill, jobs := range demand {
		demands = append(demands, SkillDemand{Skill: skill, Jobs: jobs})
	}
	sort.Slice(demands, func(i, j int) bool {
		if demands[i].Jobs != demands[j].Jobs {
			return demands[i].Jobs > demands[j].Jobs
		}
		return demands[i].Skill < demands[j].Skill
	})

	plan := ImprovementPlan{
		MissingSkills:      demands,
		TotalMissingSkills: len(demands),
	}
	for i, d := range demands {
		if i < 5 {
			plan.TopPrioritySkills = append(plan.TopPrioritySkills, d.Skill)
		}
		if i >= 10 {
			break
		}
		switch {
		case d.Jobs >= 5:
			plan.HighPriority = append(plan.HighPriority, d.Skill)
		case d.Jobs >= 3:
			plan.MediumPriority = append(plan.MediumPriority, d.Skill)
		default:
			plan.LowPriority = append(plan.LowPriority, d.Skill)
		}
	}
	return plan
}
