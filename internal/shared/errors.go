package shared

import "fmt"

var (
	// Spreadsheet errors
	ErrUnsupportedFormat = fmt.Errorf("unsupported spreadsheet format")
	ErrRead              = fmt.Errorf("spreadsheet read failed")

	// Row validation errors
	ErrValidation    = fmt.Errorf("row validation failed")
	ErrMissingPrefix = fmt.Errorf("doi is blank and no prefix configured")

	// API and transport errors
	ErrRequest = fmt.Errorf("request failed")
	ErrAPI     = fmt.Errorf("API error")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
