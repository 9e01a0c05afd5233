package importer

import "errors"

var (
	ErrEmptyOrHeaderMissing = errors.New("import: empty input or missing header row")
	ErrMissingNameColumn    = errors.New("import: no name column")
	ErrMalformedRow         = errors.New("import: malformed input")
)

// Message returns the text shown to the user when an import is rejected.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyOrHeaderMissing):
		return "File appears to be empty or missing headers."
	case errors.Is(err, ErrMissingNameColumn):
		return "Could not find a 'Name' or 'Company' column. Please check your headers."
	default:
		return "Failed to parse file. Please ensure it is a valid CSV or TSV."
	}
}

// Code returns a stable machine-readable identifier for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrEmptyOrHeaderMissing):
		return "empty_or_header_missing"
	case errors.Is(err, ErrMissingNameColumn):
		return "missing_name_column"
	default:
		return "malformed_row"
	}
}
