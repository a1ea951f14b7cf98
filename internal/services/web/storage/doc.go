// Package storage declares persistence interfaces for web-owned state:
// browser sessions and in-progress portal wizard drafts.
//
// The remote portal API stays the source of truth for accounts, clients and
// projects. Rows here only map a browser cookie to an API token and keep
// wizard progress between requests.
package storage
