package vnprovinces

import "fmt"

// UnknownCodeError reports a lookup with a code that does not exist in the
// table for the requested generation and kind.
type UnknownCodeError struct {
	Generation Generation
	Kind       DivisionKind
	Code       int
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown %s %s code %d", e.Generation, e.Kind, e.Code)
}

// LegacyCodeNotFoundError reports a cross-reference resolution whose legacy
// code has no entry, which for a well-formed dataset means the code never
// existed before the reorganization.
type LegacyCodeNotFoundError struct {
	Kind DivisionKind
	Code int
}

func (e *LegacyCodeNotFoundError) Error() string {
	return fmt.Sprintf("legacy %s code %d not found in conversion table", e.Kind, e.Code)
}

// DataLoadError wraps any failure while reading or validating a dataset
// file. Source names the file within the dataset.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
