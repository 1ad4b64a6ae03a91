package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	treeBanner  = "##################### Directory tree #####################"
	filesBanner = "##################### Included files #####################"

	sectionGap      = "\n\n\n"
	fileSeparator   = "=============================================================="
	filePathIndent  = "              "
	readErrorFormat = "# Error reading %s: %v\n"
)

// CompiledWriter writes the compiled snapshot format to an underlying writer.
// The first write error is retained and every later write becomes a no-op, so
// callers can check Err once per logical step.
type CompiledWriter struct {
	writer       *bufio.Writer
	bytesWritten int64
	err          error
}

// NewCompiledWriter wraps destination in a buffered compiled-format writer.
func NewCompiledWriter(destination io.Writer) *CompiledWriter {
	return &CompiledWriter{writer: bufio.NewWriter(destination)}
}

// WriteTreeSection writes the tree banner, the rendered tree and the files banner.
func (compiledWriter *CompiledWriter) WriteTreeSection(renderedTree string) {
	compiledWriter.writeString(treeBanner + sectionGap)
	compiledWriter.writeString(renderedTree)
	compiledWriter.writeString(sectionGap + filesBanner)
}

// WriteFileHeader writes the separator block announcing path.
func (compiledWriter *CompiledWriter) WriteFileHeader(path string) {
	compiledWriter.writeString(FileHeader(path))
}

// WriteFileContent appends content verbatim.
func (compiledWriter *CompiledWriter) WriteFileContent(content []byte) {
	if compiledWriter.err != nil {
		return
	}
	written, writeError := compiledWriter.writer.Write(content)
	compiledWriter.bytesWritten += int64(written)
	compiledWriter.err = writeError
}

// WriteFileError writes the inline diagnostic that replaces unreadable content.
func (compiledWriter *CompiledWriter) WriteFileError(path string, readError error) {
	compiledWriter.writeString(fmt.Sprintf(readErrorFormat, path, readError))
}

// Flush writes any buffered data to the underlying writer.
func (compiledWriter *CompiledWriter) Flush() error {
	if compiledWriter.err != nil {
		return compiledWriter.err
	}
	compiledWriter.err = compiledWriter.writer.Flush()
	return compiledWriter.err
}

// Err returns the first write error, if any.
func (compiledWriter *CompiledWriter) Err() error {
	return compiledWriter.err
}

// BytesWritten reports the number of bytes accepted so far.
func (compiledWriter *CompiledWriter) BytesWritten() int64 {
	return compiledWriter.bytesWritten
}

func (compiledWriter *CompiledWriter) writeString(text string) {
	if compiledWriter.err != nil {
		return
	}
	written, writeError := io.WriteString(compiledWriter.writer, text)
	compiledWriter.bytesWritten += int64(written)
	compiledWriter.err = writeError
}

// FileHeader returns the separator block for path as written by WriteFileHeader.
func FileHeader(path string) string {
	var builder strings.Builder
	builder.WriteString(sectionGap + fileSeparator + "\n")
	builder.WriteString(filePathIndent + path + "\n")
	builder.WriteString(fileSeparator + "\n")
	return builder.String()
}
