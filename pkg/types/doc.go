// Package types defines the entity types, the in-memory state shape, the
// persisted snapshot record, configuration, and standard errors for the
// pinboard engine.
//
// See docs/ARCHITECTURE.md § Data Model.
package types
