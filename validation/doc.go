// Package validation validates configuration structs via struct tags.
//
// It wraps go-playground/validator and renders field errors with
// snake_case names and human-readable messages:
//
//	type Config struct {
//	    URL string `validate:"required,url"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
package validation
