package types

import (
	"errors"
	"fmt"
)

var (
	// ErrDataLoad marks a table that could not be read or lacks a required column.
	ErrDataLoad = errors.New("data load error")
	// ErrEmptyResult marks a selection that matched no rows.
	ErrEmptyResult = errors.New("empty result")
)

type DataLoadError struct {
	Source Source
	Path   string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	msg := fmt.Sprintf("load %s data from %q: %s", e.Source, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataLoadError) Unwrap() error { return e.Err }

func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }
