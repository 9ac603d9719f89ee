// Package types defines the Backend and Table interfaces, the storefront
// entity types and the standard errors shared by the storage layer, the
// HTTP API and the CLI.
package types
