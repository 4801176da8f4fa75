package matching

import "strings"

// SkillCategory 技能分类，按固定顺序扫描以保证结果可复现
type SkillCategory struct {
	Name   string
	Skills []string
}

// skillTaxonomy 内置技能分类表
// 只增不删：删除条目会改变历史匹配结果的可比性
var skillTaxonomy = []SkillCategory{
	{
		Name: "programming_languages",
		Skills: []string{
			"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust",
			"php", "ruby", "swift", "kotlin", "scala", "r", "matlab", "perl",
		},
	},
	{
		Name: "frameworks",
		Skills: []string{
			"react", "angular", "vue.js", "node.js", "express", "django", "flask",
			"spring", "asp.net", "laravel", "rails", "fastapi", "gin", "echo",
		},
	},
	{
		Name: "databases",
		Skills: []string{
			"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle", "sql server",
			"dynamodb", "cassandra", "elasticsearch", "neo4j", "firebase",
		},
	},
	{
		Name: "cloud_platforms",
		Skills: []string{
			"aws", "azure", "gcp", "heroku", "netlify", "vercel", "digitalocean",
			"linode", "vultr", "ibm cloud", "oracle cloud",
		},
	},
	{
		Name: "devops_tools",
		Skills: []string{
			"docker", "kubernetes", "jenkins", "gitlab", "github actions", "circleci",
			"travis ci", "ansible", "terraform", "prometheus", "grafana",
		},
	},
	{
		Name: "machine_learning",
		Skills: []string{
			"tensorflow", "pytorch", "scikit-learn", "pandas", "numpy", "matplotlib",
			"seaborn", "jupyter", "keras", "xgboost", "lightgbm", "opencv",
		},
	},
	{
		Name: "design_tools",
		Skills: []string{
			"figma", "adobe xd", "sketch", "photoshop", "illustrator", "invision",
			"framer", "principle", "protopie", "zeplin",
		},
	},
	{
		Name: "project_management",
		Skills: []string{
			"jira", "confluence", "trello", "asana", "monday.com", "notion",
			"slack", "microsoft teams", "zoom", "google meet",
		},
	},
}

// Taxonomy 返回内置技能分类表
func Taxonomy() []SkillCategory {
	return skillTaxonomy
}

// categoryMembers 返回某分类下技能的小写集合，分类名未知时返回nil
func categoryMembers(name string) map[string]struct{} {
	for _, category := range skillTaxonomy {
		if category.Name != name {
			continue
		}
		members := make(map[string]struct{}, len(category.Skills))
		for _, skill := range category.Skills {
			members[strings.ToLower(skill)] = struct{}{}
		}
		return members
	}
	return nil
}

// CategoriesOf 返回技能（不区分大小写）所属的分类名，可能属于多个分类
func CategoriesOf(skill string) []string {
	lower := strings.ToLower(skill)
	var names []string
	for _, category := range skillTaxonomy {
		for _, member := range category.Skills {
			if strings.ToLower(member) == lower {
				names = append(names, category.Name)
				break
			}
		}
	}
	return names
}
