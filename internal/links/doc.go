// Package links defines the shared protocol types for the associative
// backend: the Link record, the Store contract implemented by both the
// clink-backed client and the SQLite-backed litestore, and the LiNo query
// notation (builders and parser).
//
// The backend stores nothing but flat triples (id: source target). Every
// higher-level structure - menu hierarchies, auth entity graphs - is encoded
// as links and reconstructed by re-traversing the link set.
package links
