// Package types defines every cross-package data structure used by the compilator CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// FilterRule decides which discovered files take part in a compile run.
// ExcludeKeywords are matched as substrings and always win over IncludeExtensions.
type FilterRule struct {
	IncludeExtensions []string
	ExcludeKeywords   []string
}

// CompileJob is the fully resolved input of a single compile run.
type CompileJob struct {
	SourceDirectory string
	OutputFile      string
	Filter          FilterRule
}

// TreeNode represents a node of the walked source hierarchy.
type TreeNode struct {
	Path     string
	Name     string
	Type     string
	Children []*TreeNode
}

// TreeEntry is one rendered line of the directory tree.
type TreeEntry struct {
	Depth  int
	Name   string
	IsFile bool
	// Prefix holds the connector drawing preceding the marker.
	Prefix string
}

// CompileResult summarizes a finished compile run.
type CompileResult struct {
	OutputFile    string
	FilesIncluded int
	FilesFailed   int
	BytesWritten  int64
	Tokens        int
	Model         string
}
