// Package errors provides the classified error type used across tocnav.
//
// A ClassifiedError carries a category (what kind of thing failed), a severity
// (whether processing can continue) and structured context for logging. The
// CLI adapter maps categories to process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryParse, "invalid frontmatter").
//		WithContext("document", path).
//		Build()
package errors
