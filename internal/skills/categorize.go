package skills

import "strings"

// Skill categories.
const (
	CategoryTechnical   = "technical"
	CategoryOperational = "operational"
	CategoryDomain      = "domain"
)

var technicalKeywords = []string{
	// programming
	"programming", "development", "software", "coding", "engineer",
	// web
	"asp", "asp.net", ".net", "dotnet", "angular", "react", "vue", "html", "css",
	"javascript", "typescript", "ajax", "jquery", "bootstrap",
	// databases
	"sql", "oracle", "mysql", "postgres", "mongodb", "db", "database", "query",
	"dax", "linq", "t-sql", "nosql", "redis",
	// devops
	"ci/cd", "docker", "kubernetes", "azure", "aws", "gcp", "jenkins",
	"gitlab", "devops", "terraform", "ansible",
	// bi
	"power bi", "business intelligence", "tableau", "qlik", "reporting",
	"analytics", "data warehouse", "etl",
	// languages
	"python", "java", "c#", "csharp", "go", "rust", "kotlin", "swift", "php", "ruby",
	// frameworks
	"framework", "library", "api", "rest", "graphql", "soap", "mvc",
	"webapi", "entity framework",
	// data
	"data engineering", "data science", "machine learning", "ml", "ai",
	"big data", "spark", "hadoop",
}

var operationalKeywords = []string{
	"maintain", "support", "provide", "training", "troubleshoot",
	"deploy", "configure", "install", "monitor",
}

// Categorize classifies a skill as technical, operational or domain.
func Categorize(skill string) string {
	s := strings.ToLower(skill)
	for _, kw := range technicalKeywords {
		if containsTerm(s, kw) {
			return CategoryTechnical
		}
	}
	for _, kw := range operationalKeywords {
		if strings.Contains(s, kw) {
			return CategoryOperational
		}
	}
	return CategoryDomain
}

// Technical filters skills down to the technical ones.
func Technical(skills []string) []string {
	out := []string{}
	for _, s := range skills {
		if Categorize(s) == CategoryTechnical {
			out = append(out, s)
		}
	}
	return out
}
