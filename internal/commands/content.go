package commands

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/temirov/compilator/internal/filter"
)

// CandidateFiles returns a lazy, single-pass sequence of the regular files under rootPath
// in lexical walk order. Symlinks are yielded only when they resolve to a regular file.
// Directories whose path contains an exclude keyword are pruned, since every descendant
// would carry the same keyword. Access errors are yielded with the offending path and
// the walk continues past them.
func CandidateFiles(rootPath string, excludeKeywords []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(rootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
			if accessError != nil {
				if !yield(walkedPath, accessError) {
					return filepath.SkipAll
				}
				if directoryEntry != nil && directoryEntry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if directoryEntry.IsDir() {
				if walkedPath != rootPath && filter.IsExcluded(walkedPath, excludeKeywords) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isRegularFile(walkedPath, directoryEntry) {
				return nil
			}
			if !yield(walkedPath, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func isRegularFile(walkedPath string, directoryEntry fs.DirEntry) bool {
	if directoryEntry.Type().IsRegular() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(walkedPath)
	return statError == nil && targetInfo.Mode().IsRegular()
}
