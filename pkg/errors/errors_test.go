// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEG-UNIBE/BF-CBOM/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"parse failure", errors.ErrCodeCBOMParseFailed, "cbom document is not valid JSON"},
		{"invalid param", errors.CodeInvalidParam, "directory must not be empty"},
		{"infeasible assignment", errors.ErrCodeAssignmentInfeasible, "no optimal assignment"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestError_FormatsCodeMessageAndDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeCBOMParseFailed, "parse failed")
	assert.Equal(t, "[CBOM_001] parse failed", ae.Error())

	withDetail := ae.WithDetail("file=cbomkit.json")
	assert.Equal(t, "[CBOM_001] parse failed: file=cbomkit.json", withDetail.Error())
	// The original is not mutated.
	assert.Empty(t, ae.Detail)
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("disk on fire")
	wrapped := errors.Wrap(root, errors.ErrCodeDirectoryAccess, "failed to list directory")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeDirectoryAccess, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, root))

	// A second wrap with CodeUnknown keeps the original classification.
	outer := errors.Wrap(wrapped, errors.CodeUnknown, "match run failed")
	assert.Equal(t, errors.ErrCodeDirectoryAccess, outer.Code)
	assert.True(t, stderrors.Is(outer, root))
}

func TestIsCode_WalksWrappedChains(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeComponentsMissing, "components field absent")
	outer := fmt.Errorf("loading document: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeComponentsMissing))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeCBOMParseFailed))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeComponentsMissing))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeEncodingFailed,
		errors.GetCode(errors.New(errors.ErrCodeEncodingFailed, "boom")))
}

func TestIsRecoverable(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsRecoverable(errors.New(errors.ErrCodeCBOMParseFailed, "skip me")))
	assert.True(t, errors.IsRecoverable(errors.New(errors.ErrCodeAssignmentInfeasible, "no matches")))
	assert.False(t, errors.IsRecoverable(errors.New(errors.CodeInternal, "fatal")))
	assert.False(t, errors.IsRecoverable(stderrors.New("plain")))
}
