package config

// defaultExcludeKeywords is always unioned into the exclude keywords of a run.
// It is read-only; callers receive copies through DefaultExcludeKeywords.
var defaultExcludeKeywords = []string{
	"__pycache__",
	".git",
	".cache",
	"venv",
	"env",
	".mypy_cache",
	".pytest_cache",
	"node_modules",
	"dist",
	".next",
	"out",
	"build",
	".github",
	".gitlab",
	".circleci",
	".bitbucket",
	".azure",
	".vscode",
	".idea",
	".husky",
	".config",
}

// DefaultOutputTemplate is used when OUT is not configured.
const DefaultOutputTemplate = "compiled/{SRC}.txt"

// DefaultExcludeKeywords returns a copy of the built-in exclude keywords.
func DefaultExcludeKeywords() []string {
	return append([]string(nil), defaultExcludeKeywords...)
}
