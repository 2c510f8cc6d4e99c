// Package validation provides input validation utilities for the job
// runner. Validation is programmatic: fields are built with NewField and
// checked together by Validate. There is no struct-tag validation.
//
// The package integrates with the errors package to provide consistent error
// reporting and supports custom validation rules for domain-specific
// requirements.
//
// Example:
//
//	err := validation.Validate(
//	    validation.NewField("email", email, validation.Required, validation.Email),
//	    validation.NewField("age", age, validation.Min(18), validation.Max(100)),
//	)
package validation
