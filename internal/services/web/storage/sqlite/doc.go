// Package sqlite implements the web store on a local SQLite file.
package sqlite
