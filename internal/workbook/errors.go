package workbook

import (
	"errors"
	"fmt"
)

type ErrMissingSheet struct {
	error
	Sheet string
}

func NewErrMissingSheet(sheet string) *ErrMissingSheet {
	return &ErrMissingSheet{error: fmt.Errorf("required sheet %q not found", sheet), Sheet: sheet}
}

type ErrMissingColumn struct {
	error
	Sheet  string
	Column string
}

func NewErrMissingColumn(sheet, column string) *ErrMissingColumn {
	return &ErrMissingColumn{
		error:  fmt.Errorf("sheet %q: required column %q not found", sheet, column),
		Sheet:  sheet,
		Column: column,
	}
}

type ErrInvalidCell struct {
	error
	Sheet  string
	Column string
	Row    int
}

func NewErrInvalidCell(sheet, column string, row int, cause error) *ErrInvalidCell {
	return &ErrInvalidCell{
		error:  fmt.Errorf("sheet %q row %d column %q: %w", sheet, row, column, cause),
		Sheet:  sheet,
		Column: column,
		Row:    row,
	}
}

func (e *ErrInvalidCell) Unwrap() error {
	return errors.Unwrap(e.error)
}

type ErrUnreadableWorkbook struct {
	error
}

func NewErrUnreadableWorkbook(cause error) *ErrUnreadableWorkbook {
	return &ErrUnreadableWorkbook{fmt.Errorf("failed to open workbook: %w", cause)}
}

func (e *ErrUnreadableWorkbook) Unwrap() error {
	return errors.Unwrap(e.error)
}

// IsMalformed reports whether err was caused by a workbook that does not
// honor the parsing contract.
func IsMalformed(err error) bool {
	var (
		missingSheet  *ErrMissingSheet
		missingColumn *ErrMissingColumn
		invalidCell   *ErrInvalidCell
		unreadable    *ErrUnreadableWorkbook
	)
	return errors.As(err, &missingSheet) ||
		errors.As(err, &missingColumn) ||
		errors.As(err, &invalidCell) ||
		errors.As(err, &unreadable)
}
