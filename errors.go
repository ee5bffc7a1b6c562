package expect

import "github.com/roach88/expect/internal/artifact"

// Error is an infrastructure failure during an assertion. Mismatches are
// reported through the boolean result, never as an Error.
type Error = artifact.Error

// ErrorCode categorizes an Error.
type ErrorCode = artifact.ErrorCode

const (
	ErrCodeExpectDirNotFound   = artifact.ErrCodeExpectDirNotFound
	ErrCodeCreateSubDir        = artifact.ErrCodeCreateSubDir
	ErrCodeCreateActual        = artifact.ErrCodeCreateActual
	ErrCodeWriteActual         = artifact.ErrCodeWriteActual
	ErrCodeFlushActual         = artifact.ErrCodeFlushActual
	ErrCodeSerializeActual     = artifact.ErrCodeSerializeActual
	ErrCodeCopyActual          = artifact.ErrCodeCopyActual
	ErrCodeOpenExpected        = artifact.ErrCodeOpenExpected
	ErrCodeReadExpected        = artifact.ErrCodeReadExpected
	ErrCodeDeserializeExpected = artifact.ErrCodeDeserializeExpected
)

// IsCode reports whether err is, or wraps, an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	return artifact.IsCode(err, code)
}

// IsConfigError reports whether err means the .expect directory is missing.
func IsConfigError(err error) bool {
	return artifact.IsConfigError(err)
}
