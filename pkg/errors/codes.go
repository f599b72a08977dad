package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeBadRequest    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_003"
	ErrCodeTimeout       ErrorCode = "COMMON_004"
	ErrCodeValidation    ErrorCode = "COMMON_005"
	ErrCodeSerialization ErrorCode = "COMMON_006"
)

// CBOM Document Error Codes
const (
	ErrCodeCBOMParseFailed   ErrorCode = "CBOM_001"
	ErrCodeComponentsMissing ErrorCode = "CBOM_002"
	ErrCodeEncodingFailed    ErrorCode = "CBOM_003"
)

// Tree Similarity Error Codes
const (
	ErrCodeBracketParseFailed   ErrorCode = "TREE_001"
	ErrCodeDistanceBoundInvalid ErrorCode = "TREE_002"
)

// Matching Error Codes
const (
	ErrCodeAssignmentInfeasible  ErrorCode = "MATCH_001"
	ErrCodeMatchingConfigInvalid ErrorCode = "MATCH_002"
	ErrCodeInsufficientDocuments ErrorCode = "MATCH_003"
)

// Filesystem Error Codes
const (
	ErrCodeDirectoryAccess ErrorCode = "IO_001"
)

// Aliases used throughout the codebase for the most common conditions.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// IsRecoverable reports whether an error with the given code is one the
// matching pipeline recovers from by skipping the offending unit and
// continuing, rather than aborting the whole run.
func (c ErrorCode) IsRecoverable() bool {
	switch c {
	case ErrCodeCBOMParseFailed, ErrCodeComponentsMissing, ErrCodeEncodingFailed,
		ErrCodeAssignmentInfeasible, ErrCodeDirectoryAccess:
		return true
	}
	return false
}
