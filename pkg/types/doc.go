// Package types defines the Store and LinkView interfaces, the Row handle,
// Config, and standard error types for the Larder storage system.
package types
