package skills

import "sort"

// equivalents groups skills that satisfy each other when no closer match
// exists.
var equivalents = map[string][]string{
	"sql":              {"t-sql", "sql server", "mysql", "postgresql", "plsql"},
	"power bi":         {"powerbi", "power bi desktop", "power bi service", "power bi dataflows"},
	"etl":              {"etl automation", "etl tools", "etl processes", "data integration"},
	"data modeling":    {"data modelling", "database modeling", "data model"},
	"data warehousing": {"data warehouse", "dwh", "data mart"},
	"python":           {"python3", "python 3", "py"},
	"javascript":       {"js", "node.js", "nodejs"},
	"machine learning": {"ml", "deep learning", "neural networks"},
	"aws":              {"amazon web services", "ec2", "s3", "lambda"},
	"azure":            {"microsoft azure", "azure cloud"},
	"docker":           {"containerization", "containers"},
	"kubernetes":       {"k8s", "container orchestration"},
	"tableau":          {"tableau desktop", "tableau server"},
	"excel":            {"microsoft excel", "ms excel", "spreadsheets"},
	"communication":    {"communication skills", "interpersonal skills"},
	"problem solving":  {"problem-solving", "analytical skills", "critical thinking"},
}

// synonyms lists alternate spellings of technical terms.
var synonyms = map[string][]string{
	"asp.net":          {"asp.net core", "asp.net mvc", "asp.net web api", "aspnet", "asp net"},
	"angular":          {"angularjs", "angular 2", "angular 4", "angular 6", "angular 7", "angular 8", "angular 9"},
	"c#":               {"c sharp", "csharp", "c-sharp"},
	"sql":              {"sql server", "t-sql", "tsql", "structured query language"},
	".net":             {"dotnet", "dot net", ".net framework", ".net core"},
	"javascript":       {"js", "ecmascript", "es6", "es2015"},
	"typescript":       {"ts"},
	"power bi":         {"powerbi", "power-bi"},
	"azure":            {"microsoft azure", "azure cloud"},
	"aws":              {"amazon web services"},
	"rest api":         {"restful api", "rest web services", "restful"},
	"entity framework": {"ef", "ef core", "entity-framework"},
	"linq":             {"language integrated query"},
	"ajax":             {"asynchronous javascript"},
	"oracle":           {"oracle database", "oracle db"},
}

// ExpandSynonyms returns term together with every synonym group it belongs
// to or mentions, lowercased and sorted.
func ExpandSynonyms(term string) []string {
	t := Key(term)
	set := map[string]bool{}
	if t != "" {
		set[t] = true
	}
	for key, vals := range synonyms {
		if !groupHits(t, key, vals) {
			continue
		}
		set[key] = true
		for _, v := range vals {
			set[v] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func groupHits(t, key string, vals []string) bool {
	if t == "" {
		return false
	}
	if t == key || containsTerm(t, key) {
		return true
	}
	for _, v := range vals {
		if t == v || containsTerm(t, v) {
			return true
		}
	}
	return false
}

// equivalent reports whether a and b (both keys) share an equivalents group.
func equivalent(a, b string) bool {
	for base, variants := range equivalents {
		if inGroup(a, base, variants) && inGroup(b, base, variants) {
			return true
		}
	}
	return false
}

func inGroup(s, base string, variants []string) bool {
	if s == base {
		return true
	}
	for _, v := range variants {
		if s == v {
			return true
		}
	}
	return false
}
