// Package auth persists authentication entities - users, tokens, passwords -
// as typed links plus JSON documents.
//
// Link schemas:
//   - user: (userNumeric 2000), the reserved user type tag
//   - token: (tokenNumeric userNumeric)
//   - password: (passwordNumeric userNumeric)
//
// String ids ("user_123...") key the documents; their numeric folds key the
// links. The fold is deterministic but lossy, so collisions are possible in
// principle and not detected.
//
// Cascades (DeleteUser, SetPassword) are sequential multi-step operations
// with no atomicity: an interruption leaves orphaned dependent links with no
// surviving user document. Reads scan documents, not links, so such leftovers
// never resurface as live entities; Reconcile removes them on demand.
package auth
