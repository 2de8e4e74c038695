package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed analysis run
type ErrorKind string

const (
	KindMissingContent ErrorKind = "missing_content"
	KindExtraction     ErrorKind = "extraction"
	KindModel          ErrorKind = "model"
	KindInvalidRequest ErrorKind = "invalid_request"
)

// User-facing messages for each failure kind
const (
	MsgMissingContent = "no content provided"
	MsgExtraction     = "could not extract text from URL; paste the article text manually"
	MsgModelPrefix    = "internal model error: "
)

// AnalysisError is the single error type returned from the pipeline boundary
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil && e.Kind != KindModel {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// IsClientError reports whether the caller can fix the failure by changing the request
func (e *AnalysisError) IsClientError() bool {
	return e.Kind != KindModel
}

// NewMissingContentError reports an empty request
func NewMissingContentError(cause error) *AnalysisError {
	return &AnalysisError{Kind: KindMissingContent, Message: MsgMissingContent, Cause: cause}
}

// NewExtractionError reports that no article text could be obtained from a URL
func NewExtractionError(cause error) *AnalysisError {
	return &AnalysisError{Kind: KindExtraction, Message: MsgExtraction, Cause: cause}
}

// NewModelError surfaces an inference failure with the provider message verbatim
func NewModelError(cause error) *AnalysisError {
	msg := MsgModelPrefix + "unknown failure"
	if cause != nil {
		msg = MsgModelPrefix + cause.Error()
	}
	return &AnalysisError{Kind: KindModel, Message: msg, Cause: cause}
}

// NewInvalidRequestError reports a request that could not be interpreted
func NewInvalidRequestError(msg string) *AnalysisError {
	return &AnalysisError{Kind: KindInvalidRequest, Message: msg}
}

// KindOf returns the ErrorKind of err, or KindModel for errors of unknown origin
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindModel
}
