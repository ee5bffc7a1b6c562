package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes artifact failures. The set is closed.
type ErrorCode string

const (
	// ErrCodeExpectDirNotFound indicates the top-level .expect directory is
	// missing. This is a configuration error: the fixture layout for the
	// source file was never initialized.
	ErrCodeExpectDirNotFound ErrorCode = "EXPECT_DIR_NOT_FOUND"

	// ErrCodeCreateSubDir indicates the per-source-file directory could not
	// be created.
	ErrCodeCreateSubDir ErrorCode = "CREATE_SUBDIR"

	// ErrCodeCreateActual indicates the actual file could not be created.
	ErrCodeCreateActual ErrorCode = "CREATE_ACTUAL"

	// ErrCodeWriteActual indicates writing the actual file failed.
	ErrCodeWriteActual ErrorCode = "WRITE_ACTUAL"

	// ErrCodeFlushActual indicates flushing or closing the actual file failed.
	ErrCodeFlushActual ErrorCode = "FLUSH_ACTUAL"

	// ErrCodeSerializeActual indicates the actual value could not be encoded.
	ErrCodeSerializeActual ErrorCode = "SERIALIZE_ACTUAL"

	// ErrCodeCopyActual indicates the first-run bootstrap copy failed.
	ErrCodeCopyActual ErrorCode = "COPY_ACTUAL"

	// ErrCodeOpenExpected indicates the expected file could not be opened.
	ErrCodeOpenExpected ErrorCode = "OPEN_EXPECTED"

	// ErrCodeReadExpected indicates reading the expected file failed.
	ErrCodeReadExpected ErrorCode = "READ_EXPECTED"

	// ErrCodeDeserializeExpected indicates the expected file could not be
	// decoded into the target type.
	ErrCodeDeserializeExpected ErrorCode = "DESERIALIZE_EXPECTED"
)

var messages = map[ErrorCode]string{
	ErrCodeExpectDirNotFound:   "expect directory not found",
	ErrCodeCreateSubDir:        "could not create test results directory",
	ErrCodeCreateActual:        "could not create actual results file",
	ErrCodeWriteActual:         "could not write actual results file",
	ErrCodeFlushActual:         "could not flush actual results file",
	ErrCodeSerializeActual:     "could not serialize actual results",
	ErrCodeCopyActual:          "could not copy actual results file",
	ErrCodeOpenExpected:        "could not open expected results file",
	ErrCodeReadExpected:        "could not read expected results file",
	ErrCodeDeserializeExpected: "could not deserialize expected results file",
}

// Error is an infrastructure failure while writing or reading artifacts.
// Comparison mismatches are never errors.
type Error struct {
	// Code identifies the failure kind.
	Code ErrorCode

	// Path is the file or directory involved. For ErrCodeCopyActual it is
	// the copy source.
	Path string

	// Target is the copy destination for ErrCodeCopyActual.
	Target string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("failed to run test: ")
	b.WriteString(e.Message())
	switch {
	case e.Target != "":
		fmt.Fprintf(&b, " (from=%s, to=%s)", e.Path, e.Target)
	case e.Path != "":
		fmt.Fprintf(&b, " (path=%s)", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Message is the human-readable description of the code.
func (e *Error) Message() string {
	if msg, ok := messages[e.Code]; ok {
		return msg
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is, or wraps, an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsConfigError reports whether err signals a missing fixture layout rather
// than an I/O or codec failure.
func IsConfigError(err error) bool {
	return IsCode(err, ErrCodeExpectDirNotFound)
}

func newError(code ErrorCode, path string, err error) *Error {
	return &Error{Code: code, Path: path, Err: err}
}
