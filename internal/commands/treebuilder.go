package commands

import "go.uber.org/zap"

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	// ExcludeKeywords are matched against paths relative to the tree root.
	ExcludeKeywords []string
	// SkipPaths are left out of the tree regardless of keywords.
	SkipPaths []string
	Logger    *zap.Logger
}
