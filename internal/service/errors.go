package service

import (
	"errors"
	"fmt"

	"github.com/kubev2v/capacity-planner/internal/cache"
)

type ErrDatasetNotFound struct {
	error
}

func NewErrDatasetNotFound(id cache.Key) *ErrDatasetNotFound {
	return &ErrDatasetNotFound{fmt.Errorf("dataset %s not found", id)}
}

// ErrMalformedWorkbook wraps the parse or normalization error of an upload.
type ErrMalformedWorkbook struct {
	error
}

func NewErrMalformedWorkbook(cause error) *ErrMalformedWorkbook {
	return &ErrMalformedWorkbook{fmt.Errorf("bad request: the provided workbook is malformed: %w", cause)}
}

func (e *ErrMalformedWorkbook) Unwrap() error {
	return errors.Unwrap(e.error)
}

type ErrEmptySelection struct {
	error
}

func NewErrEmptySelection(clusters []string) *ErrEmptySelection {
	return &ErrEmptySelection{fmt.Errorf("selection %v contains no clusters or no VMs", clusters)}
}

type ErrUnsupportedFormat struct {
	error
}

func NewErrUnsupportedFormat(format string) *ErrUnsupportedFormat {
	return &ErrUnsupportedFormat{fmt.Errorf("unsupported report format: %s", format)}
}

type ErrUploadNotConfigured struct {
	error
}

func NewErrUploadNotConfigured() *ErrUploadNotConfigured {
	return &ErrUploadNotConfigured{fmt.Errorf("object store is not configured")}
}
