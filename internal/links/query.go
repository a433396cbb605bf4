package links

import "fmt"

// LiNo query builders.
//
// The backend takes one declarative query per invocation. The left pattern
// matches existing links; the right pattern is what they are rewritten to.
// `()` on the left matches nothing (insert), an empty right pattern deletes,
// and `$`-prefixed variables bind and carry values across the rewrite.

// CreateQuery inserts a new link (source target). The backend assigns the id.
func CreateQuery(source, target int64) string {
	return fmt.Sprintf("() ((%d %d))", source, target)
}

// ReadAllQuery matches every link and rebinds it unchanged. Run with the
// post-state flag, this enumerates the full link set.
func ReadAllQuery() string {
	return "((($i: $s $t)) (($i: $s $t)))"
}

// ReadOneQuery is ReadAllQuery restricted to a single id.
func ReadOneQuery(id int64) string {
	return fmt.Sprintf("(((%d: $s $t)) ((%d: $s $t)))", id, id)
}

// UpdateQuery matches the link with the given id and replaces its source
// and target in place.
func UpdateQuery(id, source, target int64) string {
	return fmt.Sprintf("(((%d: $s $t)) ((%d: %d %d)))", id, id, source, target)
}

// DeleteQuery matches the link with the given id and rewrites it to nothing.
// Matching zero links is a no-op, which makes delete idempotent.
func DeleteQuery(id int64) string {
	return fmt.Sprintf("(((%d: $s $t)) ())", id)
}
