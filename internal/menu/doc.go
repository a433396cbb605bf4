// Package menu materializes hierarchical menu structures over flat links.
//
// Encoding: each menu item is one blob (its content with the nested items
// stripped) plus one link (itemID parentID). Root-level items use the
// reserved parent id 0. Item ids are derived from canonicalized content with
// no salt, so re-storing identical content is idempotent at the blob layer;
// the service also skips creating a second (itemID, parentID) link when one
// already exists, making the link layer an upsert by content as well.
//
// Reads tolerate divergence between the two substrates: a link whose blob is
// missing is silently skipped, and a blob no link points at is unreachable
// but not an error. Reconcile removes both kinds of leftovers on demand.
package menu
