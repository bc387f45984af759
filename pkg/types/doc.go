// Package types defines the Catalog interface, the Neologism and Category
// entity types, configuration, and standard error types for coinage.
//
// Both catalog backings (the local in-memory store and the remote API
// client) implement Catalog, so callers pick one at construction time and
// never branch on the backing afterwards.
package types
