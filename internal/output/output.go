// Package output renders the directory tree, the compiled file and the run summary.
package output

import (
	"fmt"
	"strings"

	"github.com/temirov/compilator/internal/types"
	"github.com/temirov/compilator/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directoryMarker = "[Dir] "
	fileMarker      = "[File] "

	treeReportFormat = "%d %s, %d %s"

	// treeErrorFormat replaces the tree section when the source tree cannot be listed.
	treeErrorFormat = "# Error rendering directory tree: %v\n"
)

// FlattenTree converts node into rendered tree lines. The root becomes the single depth-0 entry.
func FlattenTree(node *types.TreeNode) []types.TreeEntry {
	if node == nil {
		return nil
	}
	entries := []types.TreeEntry{{Depth: 0, Name: node.Name, IsFile: node.Type == types.NodeTypeFile}}
	return appendChildEntries(entries, node.Children, 1, "")
}

func appendChildEntries(entries []types.TreeEntry, children []*types.TreeNode, depth int, prefix string) []types.TreeEntry {
	for index, child := range children {
		if child == nil {
			continue
		}
		isLast := index == len(children)-1
		connector, childPrefix := treeBranchConnector, prefix+treeBranchPadding
		if isLast {
			connector, childPrefix = treeLastConnector, prefix+treeLastPadding
		}
		entries = append(entries, types.TreeEntry{
			Depth:  depth,
			Name:   child.Name,
			IsFile: child.Type != types.NodeTypeDirectory,
			Prefix: prefix + connector,
		})
		if child.Type == types.NodeTypeDirectory {
			entries = appendChildEntries(entries, child.Children, depth+1, childPrefix)
		}
	}
	return entries
}

// FormatTreeEntries renders entries one per line. Depth-0 entries are written bare as root labels.
func FormatTreeEntries(entries []types.TreeEntry) string {
	var builder strings.Builder
	for _, entry := range entries {
		if entry.Depth == 0 {
			builder.WriteString(entry.Name)
			builder.WriteString("\n")
			continue
		}
		marker := directoryMarker
		if entry.IsFile {
			marker = fileMarker
		}
		builder.WriteString(entry.Prefix)
		builder.WriteString(marker)
		builder.WriteString(entry.Name)
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatTree renders node followed by a blank line and a directory/file count report.
func FormatTree(node *types.TreeNode, directoryCount int, fileCount int) string {
	return FormatTreeEntries(FlattenTree(node)) + "\n" + FormatTreeReport(directoryCount, fileCount) + "\n"
}

// FormatTreeReport formats the closing "N directories, M files" line of a tree.
func FormatTreeReport(directoryCount int, fileCount int) string {
	directoryLabel := "directories"
	if directoryCount == 1 {
		directoryLabel = "directory"
	}
	fileLabel := "files"
	if fileCount == 1 {
		fileLabel = "file"
	}
	return fmt.Sprintf(treeReportFormat, directoryCount, directoryLabel, fileCount, fileLabel)
}

// FormatTreeError formats the diagnostic emitted in place of an unrenderable tree.
func FormatTreeError(treeError error) string {
	return fmt.Sprintf(treeErrorFormat, treeError)
}

// FormatSummaryLine formats a CompileResult into the summary line printed after a run.
func FormatSummaryLine(result types.CompileResult) string {
	label := "files"
	if result.FilesIncluded == 1 {
		label = "file"
	}
	failedSuffix := ""
	if result.FilesFailed > 0 {
		failedSuffix = fmt.Sprintf(", %d unreadable", result.FilesFailed)
	}
	tokenSuffix := ""
	if result.Tokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", result.Tokens)
	}
	modelSuffix := ""
	if result.Model != "" && result.Tokens > 0 {
		modelSuffix = fmt.Sprintf(" (model: %s)", result.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s%s", result.FilesIncluded, label, utils.FormatFileSize(result.BytesWritten), failedSuffix, tokenSuffix, modelSuffix)
}
