// Package compiler concatenates the filtered files of a source tree into a single snapshot file.
package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/temirov/compilator/internal/commands"
	"github.com/temirov/compilator/internal/filter"
	"github.com/temirov/compilator/internal/output"
	"github.com/temirov/compilator/internal/tokenizer"
	"github.com/temirov/compilator/internal/types"
	"github.com/temirov/compilator/internal/utils"
)

const (
	outputDirectoryPermissions = 0o755
	outputFilePermissions      = 0o644
	temporaryFilePattern       = ".%s.*.partial"

	readFailedMessage  = "file could not be read, writing inline diagnostic"
	walkFailedMessage  = "skipping path that could not be accessed"
	tokenFailedMessage = "failed to count tokens"
)

// Compiler runs compile jobs.
type Compiler struct {
	Logger *zap.Logger
	// TokenCounter, when set, counts tokens of every included file.
	TokenCounter tokenizer.Counter
	TokenModel   string
}

// NewCompiler constructs a Compiler that logs through logger.
func NewCompiler(logger *zap.Logger) *Compiler {
	return &Compiler{Logger: utils.LoggerOrNop(logger)}
}

// RenderTree renders the directory tree of sourceDirectory, honoring excludeKeywords.
// Entries at skipPaths are omitted. It never fails: an unreadable root yields an
// inline diagnostic instead.
func RenderTree(sourceDirectory string, excludeKeywords []string, logger *zap.Logger, skipPaths ...string) string {
	treeBuilder := &commands.TreeBuilder{ExcludeKeywords: excludeKeywords, SkipPaths: skipPaths, Logger: logger}
	rootNode, treeError := treeBuilder.GetTreeData(sourceDirectory)
	if treeError != nil {
		utils.LoggerOrNop(logger).Warn("directory tree unavailable", zap.String("path", sourceDirectory), zap.Error(treeError))
		return output.FormatTreeError(treeError)
	}
	directoryCount, fileCount := commands.CountTreeNodes(rootNode)
	return output.FormatTree(rootNode, directoryCount, fileCount)
}

// Compile writes the tree and the content of every included file of job.SourceDirectory
// to job.OutputFile. The output replaces any previous file only once it is complete.
// Unreadable files and an unreadable tree are reported inline; only output failures and
// context cancellation abort the run.
func (compiler *Compiler) Compile(ctx context.Context, job types.CompileJob) (result types.CompileResult, err error) {
	logger := utils.LoggerOrNop(compiler.Logger)
	result.OutputFile = job.OutputFile
	result.Model = compiler.TokenModel

	outputDirectory := filepath.Dir(job.OutputFile)
	if mkdirError := os.MkdirAll(outputDirectory, outputDirectoryPermissions); mkdirError != nil {
		return result, &OutputWriteError{Path: job.OutputFile, Err: mkdirError}
	}

	temporaryFile, createError := os.CreateTemp(outputDirectory, fmt.Sprintf(temporaryFilePattern, filepath.Base(job.OutputFile)))
	if createError != nil {
		return result, &OutputWriteError{Path: job.OutputFile, Err: createError}
	}
	temporaryPath := temporaryFile.Name()
	closed := false
	defer func() {
		if !closed {
			_ = temporaryFile.Close()
		}
		if err != nil {
			_ = os.Remove(temporaryPath)
		}
	}()

	compiledWriter := output.NewCompiledWriter(temporaryFile)
	compiledWriter.WriteTreeSection(RenderTree(job.SourceDirectory, job.Filter.ExcludeKeywords, logger, job.OutputFile, temporaryPath))
	if writeError := compiledWriter.Err(); writeError != nil {
		return result, &OutputWriteError{Path: job.OutputFile, Err: writeError}
	}

	for candidatePath, walkError := range commands.CandidateFiles(job.SourceDirectory, job.Filter.ExcludeKeywords) {
		if ctxError := ctx.Err(); ctxError != nil {
			return result, ctxError
		}
		if walkError != nil {
			logger.Warn(walkFailedMessage, zap.String("path", candidatePath), zap.Error(walkError))
			continue
		}
		if utils.SamePath(candidatePath, job.OutputFile) || utils.SamePath(candidatePath, temporaryPath) {
			continue
		}
		if !filter.ShouldInclude(candidatePath, job.Filter) {
			continue
		}
		compiler.appendFile(compiledWriter, candidatePath, &result)
		if writeError := compiledWriter.Err(); writeError != nil {
			return result, &OutputWriteError{Path: job.OutputFile, Err: writeError}
		}
	}

	if flushError := compiledWriter.Flush(); flushError != nil {
		return result, &OutputWriteError{Path: job.OutputFile, Err: flushError}
	}
	result.BytesWritten = compiledWriter.BytesWritten()
	if chmodError := temporaryFile.Chmod(outputFilePermissions); chmodError != nil {
		return result, &OutputWriteError{Path: job.OutputFile, Err: chmodError}
	}
	closed = true
	if closeError := temporaryFile.Close(); closeError != nil {
		return result, &OutputWriteError{Path: job.OutputFile, Err: closeError}
	}
	if replaceError := atomic.ReplaceFile(temporaryPath, job.OutputFile); replaceError != nil {
		return result, &OutputWriteError{Path: job.OutputFile, Err: replaceError}
	}

	logger.Debug("compile finished",
		zap.String("output", job.OutputFile),
		zap.Int("files", result.FilesIncluded),
		zap.Int("unreadable", result.FilesFailed),
		zap.Int64("bytes", result.BytesWritten),
	)
	return result, nil
}

// appendFile writes the separator block for path followed by its content or an inline diagnostic.
//
// #nosec G304
func (compiler *Compiler) appendFile(compiledWriter *output.CompiledWriter, path string, result *types.CompileResult) {
	logger := utils.LoggerOrNop(compiler.Logger)
	compiledWriter.WriteFileHeader(path)

	content, readError := os.ReadFile(path)
	if readError == nil && !utils.IsText(content) {
		readError = errInvalidText
	}
	if readError != nil {
		logger.Warn(readFailedMessage, zap.String("path", path), zap.Error(readError))
		compiledWriter.WriteFileError(path, readError)
		result.FilesFailed++
		return
	}

	compiledWriter.WriteFileContent(content)
	result.FilesIncluded++
	if compiler.TokenCounter == nil {
		return
	}
	tokenResult, tokenError := tokenizer.CountBytes(compiler.TokenCounter, content)
	if tokenError != nil {
		logger.Warn(tokenFailedMessage, zap.String("path", path), zap.Error(tokenError))
		return
	}
	if tokenResult.Counted {
		result.Tokens += tokenResult.Tokens
	}
}
