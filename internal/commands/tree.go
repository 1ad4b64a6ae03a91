// Package commands walks source directories for the tree and content sections of a compile run.
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/compilator/internal/filter"
	"github.com/temirov/compilator/internal/types"
	"github.com/temirov/compilator/internal/utils"
)

const (
	// warningSkipSubdirMessage is logged when a subdirectory cannot be listed.
	warningSkipSubdirMessage = "skipping unreadable subdirectory"

	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// GetTreeData walks rootDirectoryPath and returns its root node.
// The root keeps the path exactly as given so the rendered label matches the input.
// Only a failure to list the root itself is returned as an error.
func (treeBuilder *TreeBuilder) GetTreeData(rootDirectoryPath string) (*types.TreeNode, error) {
	rootNode := &types.TreeNode{
		Path: rootDirectoryPath,
		Name: rootDirectoryPath,
		Type: types.NodeTypeDirectory,
	}

	children, buildError := treeBuilder.buildTreeNodes(rootDirectoryPath, rootDirectoryPath)
	if buildError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, rootDirectoryPath, buildError)
	}
	rootNode.Children = children
	return rootNode, nil
}

// buildTreeNodes recursively builds child nodes for the directory tree.
func (treeBuilder *TreeBuilder) buildTreeNodes(currentDirectoryPath string, rootDirectoryPath string) ([]*types.TreeNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	logger := utils.LoggerOrNop(treeBuilder.Logger)
	var nodes []*types.TreeNode
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		if filter.IsExcluded(relativeChildPath, treeBuilder.ExcludeKeywords) || treeBuilder.isSkipped(childPath) {
			logger.Debug("tree entry excluded", zap.String("path", relativeChildPath))
			continue
		}

		node := &types.TreeNode{
			Path: childPath,
			Name: directoryEntry.Name(),
			Type: types.NodeTypeFile,
		}
		if directoryEntry.IsDir() {
			node.Type = types.NodeTypeDirectory
			childNodes, buildError := treeBuilder.buildTreeNodes(childPath, rootDirectoryPath)
			if buildError != nil {
				logger.Warn(warningSkipSubdirMessage, zap.String("path", childPath), zap.Error(buildError))
			}
			node.Children = childNodes
		} else if isDirectorySymlink(childPath, directoryEntry) {
			node.Type = types.NodeTypeDirectory
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// isDirectorySymlink reports whether entry is a symlink resolving to a directory.
// Such entries are marked as directories but not descended into.
func isDirectorySymlink(path string, directoryEntry fs.DirEntry) bool {
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(path)
	return statError == nil && targetInfo.IsDir()
}

func (treeBuilder *TreeBuilder) isSkipped(path string) bool {
	for _, skipPath := range treeBuilder.SkipPaths {
		if utils.SamePath(path, skipPath) {
			return true
		}
	}
	return false
}

// CountTreeNodes returns the number of directories and files below node, excluding node itself.
func CountTreeNodes(node *types.TreeNode) (int, int) {
	if node == nil {
		return 0, 0
	}
	var directoryCount, fileCount int
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if child.Type == types.NodeTypeDirectory {
			directoryCount++
			nestedDirectories, nestedFiles := CountTreeNodes(child)
			directoryCount += nestedDirectories
			fileCount += nestedFiles
			continue
		}
		fileCount++
	}
	return directoryCount, fileCount
}
