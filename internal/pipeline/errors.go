package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"

	pcsv "popreport/internal/parser/csv"
	"popreport/internal/population"
	"popreport/internal/report"
)

// Kind classifies a failed run.
type Kind int

const (
	KindUnexpected       Kind = iota // anything not listed below
	KindNotFound                     // input path does not exist
	KindPermissionDenied             // input exists but cannot be read
	KindMalformedCSV                 // CSV syntax or header problem
	KindMalformedRow                 // a kept row carries an unparseable number
	KindNoRecords                    // nothing survived the filter
	KindWriteFailed                  // the summary file could not be written
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindMalformedCSV:
		return "malformed_csv"
	case KindMalformedRow:
		return "malformed_row"
	case KindNoRecords:
		return "no_records"
	case KindWriteFailed:
		return "write_failed"
	default:
		return "unexpected"
	}
}

// Sentinels for errors.Is; an *Error matches the sentinel of its Kind.
var (
	ErrNotFound         = errors.New("input not found")
	ErrPermissionDenied = errors.New("input permission denied")
	ErrMalformedCSV     = errors.New("malformed csv")
	ErrMalformedRow     = errors.New("malformed row")
	ErrNoRecords        = errors.New("no records")
	ErrWriteFailed      = errors.New("write failed")
)

var sentinels = map[Kind]error{
	KindNotFound:         ErrNotFound,
	KindPermissionDenied: ErrPermissionDenied,
	KindMalformedCSV:     ErrMalformedCSV,
	KindMalformedRow:     ErrMalformedRow,
	KindNoRecords:        ErrNoRecords,
	KindWriteFailed:      ErrWriteFailed,
}

// Error is the single error type returned by Run.
type Error struct {
	Kind Kind
	Step string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// classifyOpen maps an input open failure.
func classifyOpen(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	default:
		return KindUnexpected
	}
}

// classifyLoad maps a population.Load failure.
func classifyLoad(err error) Kind {
	var pe *csv.ParseError
	var mre *population.MalformedRowError
	switch {
	case errors.As(err, &pe), errors.Is(err, pcsv.ErrMissingColumn):
		return KindMalformedCSV
	case errors.As(err, &mre):
		return KindMalformedRow
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	default:
		return KindUnexpected
	}
}

// Diagnose prints the one-line message for err in rep's language. The four
// message families mirror the kinds users can act on; every other kind shares
// the unexpected-error wording.
func Diagnose(rep *report.Reporter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		rep.Diagnose(report.MsgUnexpected, err.Error())
		return
	}
	switch e.Kind {
	case KindNotFound:
		rep.Diagnose(report.MsgNotFound, e.Path)
	case KindPermissionDenied:
		rep.Diagnose(report.MsgPermissionDenied, e.Path)
	case KindMalformedCSV:
		rep.Diagnose(report.MsgMalformedCSV, e.Err.Error())
	default:
		rep.Diagnose(report.MsgUnexpected, e.Err.Error())
	}
}
