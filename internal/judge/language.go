package judge

// Language ids are opaque to the client; this table is for callers that only
// know a language by name.
var languageIDs = map[string]int{
	"c":          50,
	"cpp":        54,
	"go":         60,
	"java":       62,
	"javascript": 63,
	"kotlin":     78,
	"python":     71,
	"ruby":       72,
	"rust":       73,
	"typescript": 74,
}

// LanguageID resolves a language name to the judge's language id. The second
// return is false for names the judge does not support.
func LanguageID(name string) (int, bool) {
	id, ok := languageIDs[name]
	return id, ok
}
