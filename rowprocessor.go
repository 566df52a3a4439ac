package fileproc

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ProcessedRow is the outcome of validating/applying one input row.
type ProcessedRow struct {
	LineNumber  int64
	RawText     string
	RowID       string
	Valid       bool
	Duplicate   bool
	FailureType FailureType
	Errors      []string
}

// RowProcessor is the pluggable row-level collaborator named as an
// out-of-scope concern: row schema, validation rules, persistence and the
// deduplication mechanism are opaque to the core. processUserBatch calls
// through this interface and folds its verdicts into counters.
type RowProcessor interface {
	// ProcessRows parses and validates each line in rawLines (already
	// split on the line terminator, header excluded), returning one
	// ProcessedRow per input line in order. dedupCheck is nil when
	// deduplication is disabled.
	ProcessRows(ctx context.Context, rawLines []string, startLineNumber int64, dedupCheck func(rowID string) (bool, error)) ([]ProcessedRow, error)
}

// DefaultRowProcessor is a reference RowProcessor parsing CSV rows with the
// fixed schema named in the external interfaces: id, name, email,
// company_name, address. It is a reference implementation exercising the
// pluggable interface, not a mandate.
type DefaultRowProcessor struct {
	validate *validator.Validate
}

var _ RowProcessor = (*DefaultRowProcessor)(nil)

func NewDefaultRowProcessor() *DefaultRowProcessor {
	return &DefaultRowProcessor{validate: validator.New()}
}

type csvRow struct {
	ID          string `validate:"required"`
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	CompanyName string `validate:"required"`
	Address     string `validate:"required"`
}

func (p *DefaultRowProcessor) ProcessRows(ctx context.Context, rawLines []string, startLineNumber int64, dedupCheck func(rowID string) (bool, error)) ([]ProcessedRow, error) {
	result := make([]ProcessedRow, 0, len(rawLines))
	for i, line := range rawLines {
		lineNumber := startLineNumber + int64(i)
		row := ProcessedRow{LineNumber: lineNumber, RawText: line}

		fields, err := parseCSVLine(line)
		if err != nil {
			row.FailureType = ParseError
			row.Errors = []string{err.Error()}
			result = append(result, row)
			continue
		}
		if len(fields) < 5 {
			row.FailureType = ParseError
			row.Errors = []string{"expected 5 fields: id, name, email, company_name, address"}
			result = append(result, row)
			continue
		}

		rec := csvRow{ID: fields[0], Name: fields[1], Email: fields[2], CompanyName: fields[3], Address: fields[4]}
		row.RowID = rec.ID

		if err := p.validate.Struct(rec); err != nil {
			row.FailureType = ValidationError
			for _, fe := range err.(validator.ValidationErrors) {
				row.Errors = append(row.Errors, fe.Field()+": "+fe.Tag())
			}
			result = append(result, row)
			continue
		}

		if dedupCheck != nil {
			alreadySeen, derr := dedupCheck(rec.ID)
			if derr != nil {
				row.FailureType = ProcessingError
				row.Errors = []string{derr.Error()}
				result = append(result, row)
				continue
			}
			if alreadySeen {
				row.Duplicate = true
				result = append(result, row)
				continue
			}
		}

		row.Valid = true
		result = append(result, row)
	}
	return result, nil
}

func parseCSVLine(line string) ([]string, error) {
	r := csv.NewReader(bytes.NewReader([]byte(strings.TrimSuffix(line, "\r"))))
	fields, err := r.Read()
	if err != nil && err != io.EOF {
		return nil, err
	}
	return fields, nil
}
