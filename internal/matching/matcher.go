package matching

import (
	"strings"

	"intern-match-go/internal/types"
)

// MatchSkills 把岗位技能逐一归入 exact / partial / category 三个互斥档位
//
// 比较全程不区分大小写。三个档位各算一个独立百分比
// (档位数量 / 岗位技能总数 * 100)，TotalPct 为三者之和，可超过100，
// 见 types.SkillMatchResult 的说明。岗位技能为空时全部为零值
func MatchSkills(resumeSkills, jobSkills []string) types.SkillMatchResult {
	resumeLower := lowerSet(resumeSkills)
	jobLower := make([]string, len(jobSkills))
	for i, skill := range jobSkills {
		jobLower[i] = strings.ToLower(skill)
	}

	exact := make(map[string]struct{})
	var exactList []string
	for _, jobSkill := range jobLower {
		if _, ok := resumeLower[jobSkill]; ok {
			if _, dup := exact[jobSkill]; !dup {
				exact[jobSkill] = struct{}{}
				exactList = append(exactList, jobSkill)
			}
		}
	}

	// 部分匹配：任一方向的子串包含，且未被精确档收走
	partial := make(map[string]struct{})
	var partialList []string
	for _, jobSkill := range jobLower {
		if _, isExact := exact[jobSkill]; isExact {
			continue
		}
		if _, dup := partial[jobSkill]; dup {
			continue
		}
		for resumeSkill := range resumeLower {
			if strings.Contains(resumeSkill, jobSkill) || strings.Contains(jobSkill, resumeSkill) {
				partial[jobSkill] = struct{}{}
				partialList = append(partialList, jobSkill)
				break
			}
		}
	}

	// 分类匹配：岗位技能与某个简历技能同属一个分类，且未被前两档收走
	category := make(map[string]struct{})
	var categoryList []string
	for _, cat := range skillTaxonomy {
		members := lowerSet(cat.Skills)
		resumeInCategory := false
		for resumeSkill := range resumeLower {
			if _, ok := members[resumeSkill]; ok {
				resumeInCategory = true
				break
			}
		}
		if !resumeInCategory {
			continue
		}
		for _, jobSkill := range jobLower {
			if _, ok := members[jobSkill]; !ok {
				continue
			}
			if _, isExact := exact[jobSkill]; isExact {
				continue
			}
			if _, isPartial := partial[jobSkill]; isPartial {
				continue
			}
			if _, dup := category[jobSkill]; dup {
				continue
			}
			category[jobSkill] = struct{}{}
			categoryList = append(categoryList, jobSkill)
		}
	}

	// 未进任何档位的岗位技能保留原始写法返回
	var missing []string
	for i, jobSkill := range jobLower {
		if _, ok := exact[jobSkill]; ok {
			continue
		}
		if _, ok := partial[jobSkill]; ok {
			continue
		}
		if _, ok := category[jobSkill]; ok {
			continue
		}
		missing = append(missing, jobSkills[i])
	}

	result := types.SkillMatchResult{
		ExactMatches:    exactList,
		PartialMatches:  partialList,
		CategoryMatches: categoryList,
		MissingSkills:   missing,
	}

	total := len(jobSkills)
	if total > 0 {
		result.ExactPct = float64(len(exactList)) / float64(total) * 100
		result.PartialPct = float64(len(partialList)) / float64(total) * 100
		result.CategoryPct = float64(len(categoryList)) / float64(total) * 100
		result.TotalPct = result.ExactPct + result.PartialPct + result.CategoryPct
	}

	return result
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
