package compiler

import (
	"errors"
	"fmt"
)

// errInvalidText is reported inline for files whose content is not valid UTF-8.
var errInvalidText = errors.New("content is not valid UTF-8 text")

// OutputWriteError reports that the compiled output could not be created or written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (outputWriteError *OutputWriteError) Error() string {
	return fmt.Sprintf("write output %s: %v", outputWriteError.Path, outputWriteError.Err)
}

func (outputWriteError *OutputWriteError) Unwrap() error {
	return outputWriteError.Err
}
