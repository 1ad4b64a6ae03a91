package compiler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/compilator/internal/compiler"
	"github.com/temirov/compilator/internal/output"
	"github.com/temirov/compilator/internal/types"
)

const (
	treeBannerText  = "##################### Directory tree #####################\n\n\n"
	filesBannerText = "\n\n\n##################### Included files #####################"
)

func writeSourceFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestCompileAppliesFilter(t *testing.T) {
	sourceDirectory := t.TempDir()
	writeSourceFile(t, filepath.Join(sourceDirectory, "a.py"), []byte("print('a')\n"))
	writeSourceFile(t, filepath.Join(sourceDirectory, "b.txt"), []byte("not python\n"))
	writeSourceFile(t, filepath.Join(sourceDirectory, "node_modules", "c.py"), []byte("print('c')\n"))
	outputFile := filepath.Join(t.TempDir(), "compiled", "snapshot.txt")

	job := types.CompileJob{
		SourceDirectory: sourceDirectory,
		OutputFile:      outputFile,
		Filter:          types.FilterRule{IncludeExtensions: []string{".py"}, ExcludeKeywords: []string{"node_modules"}},
	}
	result, err := compiler.NewCompiler(zaptest.NewLogger(t)).Compile(context.Background(), job)
	require.NoError(t, err)

	compiled, readErr := os.ReadFile(outputFile)
	require.NoError(t, readErr)

	expected := treeBannerText +
		sourceDirectory + "\n" +
		"├── [File] a.py\n" +
		"└── [File] b.txt\n" +
		"\n0 directories, 2 files\n" +
		filesBannerText +
		output.FileHeader(filepath.Join(sourceDirectory, "a.py")) +
		"print('a')\n"
	if diff := cmp.Diff(expected, string(compiled)); diff != "" {
		t.Fatalf("unexpected compiled output (-want +got):\n%s", diff)
	}

	require.Equal(t, 1, result.FilesIncluded)
	require.Equal(t, 0, result.FilesFailed)
	require.Equal(t, int64(len(expected)), result.BytesWritten)
	require.Equal(t, outputFile, result.OutputFile)

	info, statErr := os.Stat(outputFile)
	require.NoError(t, statErr)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCompileContinuesAfterUnreadableFiles(t *testing.T) {
	sourceDirectory := t.TempDir()
	invalidPath := filepath.Join(sourceDirectory, "a_invalid.py")
	lockedPath := filepath.Join(sourceDirectory, "locked.py")
	laterPath := filepath.Join(sourceDirectory, "z.py")
	writeSourceFile(t, invalidPath, []byte{0xff, 0xfe, 0x00})
	writeSourceFile(t, lockedPath, []byte("secret = 1\n"))
	writeSourceFile(t, laterPath, []byte("after = 2\n"))

	expectedFailures := 1
	if os.Geteuid() != 0 {
		require.NoError(t, os.Chmod(lockedPath, 0o000))
		t.Cleanup(func() { _ = os.Chmod(lockedPath, 0o644) })
		expectedFailures = 2
	}

	observedCore, observedLogs := observer.New(zapcore.WarnLevel)
	outputFile := filepath.Join(t.TempDir(), "out.txt")
	result, err := compiler.NewCompiler(zap.New(observedCore)).Compile(context.Background(), types.CompileJob{
		SourceDirectory: sourceDirectory,
		OutputFile:      outputFile,
		Filter:          types.FilterRule{IncludeExtensions: []string{".py"}},
	})
	require.NoError(t, err)

	compiled, readErr := os.ReadFile(outputFile)
	require.NoError(t, readErr)
	compiledText := string(compiled)

	require.Contains(t, compiledText, output.FileHeader(invalidPath)+"# Error reading "+invalidPath+": ")
	require.Contains(t, compiledText, output.FileHeader(laterPath)+"after = 2\n")
	if expectedFailures == 2 {
		require.Contains(t, compiledText, output.FileHeader(lockedPath)+"# Error reading "+lockedPath+": ")
	}
	require.Equal(t, expectedFailures, result.FilesFailed)
	require.Equal(t, 3-expectedFailures, result.FilesIncluded)
	require.Equal(t, expectedFailures, observedLogs.FilterField(zap.String("path", invalidPath)).Len()+observedLogs.FilterField(zap.String("path", lockedPath)).Len())
}

func TestCompileIsIdempotentWithOutputInsideSource(t *testing.T) {
	sourceDirectory := t.TempDir()
	writeSourceFile(t, filepath.Join(sourceDirectory, "main.go"), []byte("package main\n"))
	writeSourceFile(t, filepath.Join(sourceDirectory, "pkg", "util.go"), []byte("package pkg\n"))
	outputFile := filepath.Join(sourceDirectory, "compiled", "snapshot.txt")
	job := types.CompileJob{SourceDirectory: sourceDirectory, OutputFile: outputFile}

	compilerInstance := compiler.NewCompiler(zaptest.NewLogger(t))
	_, firstErr := compilerInstance.Compile(context.Background(), job)
	require.NoError(t, firstErr)
	first, _ := os.ReadFile(outputFile)

	_, secondErr := compilerInstance.Compile(context.Background(), job)
	require.NoError(t, secondErr)
	second, _ := os.ReadFile(outputFile)

	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("compile is not idempotent (-first +second):\n%s", diff)
	}
	require.NotContains(t, string(second), "snapshot.txt")
	require.NotContains(t, string(second), ".partial")

	leftovers, globErr := filepath.Glob(filepath.Join(sourceDirectory, "compiled", ".*.partial"))
	require.NoError(t, globErr)
	require.Empty(t, leftovers)
}

func TestCompileReplacesPreviousOutput(t *testing.T) {
	sourceDirectory := t.TempDir()
	writeSourceFile(t, filepath.Join(sourceDirectory, "a.py"), []byte("x = 1\n"))
	outputFile := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(outputFile, []byte("stale content from an older run"), 0o644))

	_, err := compiler.NewCompiler(nil).Compile(context.Background(), types.CompileJob{SourceDirectory: sourceDirectory, OutputFile: outputFile})
	require.NoError(t, err)

	compiled, readErr := os.ReadFile(outputFile)
	require.NoError(t, readErr)
	require.NotContains(t, string(compiled), "stale content")
	require.True(t, strings.HasPrefix(string(compiled), treeBannerText))
}

func TestCompileReportsOutputWriteError(t *testing.T) {
	sourceDirectory := t.TempDir()
	writeSourceFile(t, filepath.Join(sourceDirectory, "a.py"), []byte("x = 1\n"))
	blockingFile := filepath.Join(t.TempDir(), "not-a-directory")
	require.NoError(t, os.WriteFile(blockingFile, []byte("file"), 0o644))

	outputFile := filepath.Join(blockingFile, "out.txt")
	_, err := compiler.NewCompiler(nil).Compile(context.Background(), types.CompileJob{SourceDirectory: sourceDirectory, OutputFile: outputFile})
	require.Error(t, err)

	var outputWriteError *compiler.OutputWriteError
	require.True(t, errors.As(err, &outputWriteError))
	require.Equal(t, outputFile, outputWriteError.Path)
}

func TestCompileDegradesWhenTreeIsUnavailable(t *testing.T) {
	missingSource := filepath.Join(t.TempDir(), "missing")
	outputFile := filepath.Join(t.TempDir(), "out.txt")

	result, err := compiler.NewCompiler(zaptest.NewLogger(t)).Compile(context.Background(), types.CompileJob{SourceDirectory: missingSource, OutputFile: outputFile})
	require.NoError(t, err)
	require.Zero(t, result.FilesIncluded)

	compiled, readErr := os.ReadFile(outputFile)
	require.NoError(t, readErr)
	require.Contains(t, string(compiled), treeBannerText+"# Error rendering directory tree: ")
	require.True(t, strings.HasSuffix(string(compiled), filesBannerText))
}

func TestCompileStopsOnCancelledContext(t *testing.T) {
	sourceDirectory := t.TempDir()
	writeSourceFile(t, filepath.Join(sourceDirectory, "a.py"), []byte("x = 1\n"))
	outputDirectory := t.TempDir()
	outputFile := filepath.Join(outputDirectory, "out.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := compiler.NewCompiler(nil).Compile(ctx, types.CompileJob{SourceDirectory: sourceDirectory, OutputFile: outputFile})
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(outputFile)
	require.True(t, os.IsNotExist(statErr))
	entries, readDirErr := os.ReadDir(outputDirectory)
	require.NoError(t, readDirErr)
	require.Empty(t, entries)
}

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCompileCountsTokens(t *testing.T) {
	sourceDirectory := t.TempDir()
	writeSourceFile(t, filepath.Join(sourceDirectory, "a.py"), []byte("abc"))
	writeSourceFile(t, filepath.Join(sourceDirectory, "b.py"), []byte("de"))
	writeSourceFile(t, filepath.Join(sourceDirectory, "c.py"), []byte{'f', 0x00, 'g'})

	compilerInstance := &compiler.Compiler{TokenCounter: runeCounter{}, TokenModel: "runes"}
	result, err := compilerInstance.Compile(context.Background(), types.CompileJob{
		SourceDirectory: sourceDirectory,
		OutputFile:      filepath.Join(t.TempDir(), "out.txt"),
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.FilesIncluded)
	require.Equal(t, 8, result.Tokens)
	require.Equal(t, "runes", result.Model)
}

func TestRenderTreeSkipsPaths(t *testing.T) {
	sourceDirectory := t.TempDir()
	writeSourceFile(t, filepath.Join(sourceDirectory, "keep.go"), []byte("package keep\n"))
	skippedPath := filepath.Join(sourceDirectory, "skip.txt")
	writeSourceFile(t, skippedPath, []byte("skip"))

	rendered := compiler.RenderTree(sourceDirectory, nil, nil, skippedPath)
	require.Equal(t, sourceDirectory+"\n└── [File] keep.go\n\n0 directories, 1 file\n", rendered)
}
