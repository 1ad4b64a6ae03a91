package output_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/temirov/compilator/internal/output"
	"github.com/temirov/compilator/internal/types"
)

func sampleTree() *types.TreeNode {
	return &types.TreeNode{
		Path: "../myproj",
		Name: "../myproj",
		Type: types.NodeTypeDirectory,
		Children: []*types.TreeNode{
			{
				Name: "pkg",
				Type: types.NodeTypeDirectory,
				Children: []*types.TreeNode{
					{Name: "a.go", Type: types.NodeTypeFile},
					{Name: "b.go", Type: types.NodeTypeFile},
				},
			},
			{Name: "main.go", Type: types.NodeTypeFile},
		},
	}
}

func TestFlattenTree(t *testing.T) {
	t.Parallel()

	expected := []types.TreeEntry{
		{Depth: 0, Name: "../myproj"},
		{Depth: 1, Name: "pkg", Prefix: "├── "},
		{Depth: 2, Name: "a.go", IsFile: true, Prefix: "│   ├── "},
		{Depth: 2, Name: "b.go", IsFile: true, Prefix: "│   └── "},
		{Depth: 1, Name: "main.go", IsFile: true, Prefix: "└── "},
	}
	if diff := cmp.Diff(expected, output.FlattenTree(sampleTree())); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
}

func TestFormatTree(t *testing.T) {
	t.Parallel()

	expected := strings.Join([]string{
		"../myproj",
		"├── [Dir] pkg",
		"│   ├── [File] a.go",
		"│   └── [File] b.go",
		"└── [File] main.go",
		"",
		"1 directory, 3 files",
		"",
	}, "\n")
	if diff := cmp.Diff(expected, output.FormatTree(sampleTree(), 1, 3)); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestFormatTreeReportPluralization(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		directories int
		files       int
		expected    string
	}{
		{directories: 0, files: 0, expected: "0 directories, 0 files"},
		{directories: 1, files: 1, expected: "1 directory, 1 file"},
		{directories: 2, files: 5, expected: "2 directories, 5 files"},
	}
	for _, testCase := range testCases {
		if actual := output.FormatTreeReport(testCase.directories, testCase.files); actual != testCase.expected {
			t.Fatalf("expected %q, got %q", testCase.expected, actual)
		}
	}
}

func TestCompiledWriterLayout(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	compiledWriter := output.NewCompiledWriter(&buffer)
	compiledWriter.WriteTreeSection("root\n")
	compiledWriter.WriteFileHeader("root/a.py")
	compiledWriter.WriteFileContent([]byte("print('a')\n"))
	compiledWriter.WriteFileHeader("root/locked.py")
	compiledWriter.WriteFileError("root/locked.py", errors.New("permission denied"))
	if flushError := compiledWriter.Flush(); flushError != nil {
		t.Fatalf("flush: %v", flushError)
	}

	separator := strings.Repeat("=", 62)
	indent := strings.Repeat(" ", 14)
	expected := "##################### Directory tree #####################\n\n\n" +
		"root\n" +
		"\n\n\n##################### Included files #####################" +
		"\n\n\n" + separator + "\n" + indent + "root/a.py\n" + separator + "\n" +
		"print('a')\n" +
		"\n\n\n" + separator + "\n" + indent + "root/locked.py\n" + separator + "\n" +
		"# Error reading root/locked.py: permission denied\n"
	if diff := cmp.Diff(expected, buffer.String()); diff != "" {
		t.Fatalf("unexpected compiled output (-want +got):\n%s", diff)
	}
	if compiledWriter.BytesWritten() != int64(len(expected)) {
		t.Fatalf("expected %d bytes written, got %d", len(expected), compiledWriter.BytesWritten())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCompiledWriterRetainsFirstError(t *testing.T) {
	t.Parallel()

	compiledWriter := output.NewCompiledWriter(failingWriter{})
	compiledWriter.WriteTreeSection(strings.Repeat("x", 8192))
	if compiledWriter.Err() == nil {
		t.Fatalf("expected a write error once the buffer spills")
	}
	compiledWriter.WriteFileHeader("ignored")
	if flushError := compiledWriter.Flush(); flushError == nil || flushError.Error() != "disk full" {
		t.Fatalf("expected the original error from Flush, got %v", flushError)
	}
}

func TestFormatSummaryLine(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		result   types.CompileResult
		expected string
	}{
		{
			name:     "single file",
			result:   types.CompileResult{FilesIncluded: 1, BytesWritten: 512},
			expected: "Summary: 1 file, 512b",
		},
		{
			name:     "failures and tokens",
			result:   types.CompileResult{FilesIncluded: 3, FilesFailed: 1, BytesWritten: 2048, Tokens: 42, Model: "gpt-4o"},
			expected: "Summary: 3 files, 2kb, 1 unreadable, 42 tokens (model: gpt-4o)",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if actual := output.FormatSummaryLine(testCase.result); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

func TestFormatTreeError(t *testing.T) {
	t.Parallel()

	diagnostic := output.FormatTreeError(errors.New("no such file"))
	if diagnostic != "# Error rendering directory tree: no such file\n" {
		t.Fatalf("unexpected diagnostic %q", diagnostic)
	}
}
