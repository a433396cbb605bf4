package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/linkstore/internal/blob"
	"github.com/roach88/linkstore/internal/ident"
	"github.com/roach88/linkstore/internal/links"
)

const (
	// Namespace is the blob namespace for menu item documents.
	Namespace = "menu-items"

	// RootParent is the reserved parent id for root-level items.
	RootParent int64 = 0

	// childrenKey holds nested items inside an item document. It is
	// stripped before hashing and storage.
	childrenKey = "items"
)

// Service stores and materializes menu structures.
type Service struct {
	store links.Store
	blobs *blob.Store
	log   *slog.Logger
}

// New creates a menu service. A nil logger falls back to slog.Default().
func New(store links.Store, blobs *blob.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, blobs: blobs, log: logger}
}

// Node is a materialized menu item: its content joined with the link and
// item ids it was reconstructed from, plus its materialized children.
type Node struct {
	Item     map[string]any
	LinkID   int64
	ItemID   int64
	Children []Node
}

// MarshalJSON flattens the node into its item content with _linkId and
// _itemId bookkeeping fields, children under "items" only when non-empty.
func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Item)+3)
	for k, v := range n.Item {
		out[k] = v
	}
	out["_linkId"] = n.LinkID
	out["_itemId"] = n.ItemID
	if len(n.Children) > 0 {
		out[childrenKey] = n.Children
	}
	return json.Marshal(out)
}

// FlatItem is one menu item with its full bookkeeping, as returned by
// AllItems.
type FlatItem struct {
	Item     map[string]any
	LinkID   int64
	ItemID   int64
	ParentID int64
}

func itemKey(itemID int64) string {
	return strconv.FormatInt(itemID, 10)
}

// StoreItem saves one item (children already stripped) under the given
// parent. The blob write is an overwrite; the link is only created when no
// (itemID, parentID) link exists yet, so re-storing identical content does
// not accumulate duplicate links.
func (s *Service) StoreItem(ctx context.Context, item map[string]any, parentID int64) (int64, error) {
	itemID, err := ident.ItemID(item)
	if err != nil {
		return 0, fmt.Errorf("store item: %w", err)
	}

	if err := s.blobs.Save(Namespace, itemKey(itemID), item); err != nil {
		return 0, fmt.Errorf("store item %d: %w", itemID, err)
	}

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("store item %d: %w", itemID, err)
	}
	for _, link := range all {
		if link.Source == itemID && link.Target == parentID {
			s.log.Debug("link already exists", "itemId", itemID, "parentId", parentID, "linkId", link.ID)
			return itemID, nil
		}
	}

	if _, err := s.store.Create(ctx, itemID, parentID); err != nil {
		return 0, fmt.Errorf("store item %d: %w", itemID, err)
	}
	s.log.Info("menu item stored", "itemId", itemID, "parentId", parentID)
	return itemID, nil
}

// StoreTree stores a complete menu structure recursively. Children are
// stripped from each item before hashing and storage, then stored under the
// item's own id. Returns item ids in pre-order: parent before children,
// siblings in input order.
func (s *Service) StoreTree(ctx context.Context, items []map[string]any, parentID int64) ([]int64, error) {
	ids := []int64{}
	for _, item := range items {
		stripped, children := stripChildren(item)

		itemID, err := s.StoreItem(ctx, stripped, parentID)
		if err != nil {
			return ids, err
		}
		ids = append(ids, itemID)

		if len(children) > 0 {
			childIDs, err := s.StoreTree(ctx, children, itemID)
			ids = append(ids, childIDs...)
			if err != nil {
				return ids, err
			}
		}
	}
	return ids, nil
}

// stripChildren returns a copy of the item without the children field, plus
// the children themselves.
func stripChildren(item map[string]any) (map[string]any, []map[string]any) {
	stripped := make(map[string]any, len(item))
	for k, v := range item {
		if k == childrenKey {
			continue
		}
		stripped[k] = v
	}
	return stripped, asItems(item[childrenKey])
}

// asItems coerces a decoded JSON children value into a slice of items,
// skipping entries that are not objects.
func asItems(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		items := make([]map[string]any, 0, len(list))
		for _, elem := range list {
			if m, ok := elem.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	default:
		return nil
	}
}

// Materialize reconstructs the subtree under the given parent by selecting
// every link whose target is the parent and joining each source to its
// blob. Links whose blob is missing are skipped silently. Sibling order
// follows the backend's enumeration order for this call.
func (s *Service) Materialize(ctx context.Context, parentID int64) ([]Node, error) {
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("materialize %d: %w", parentID, err)
	}

	nodes := []Node{}
	for _, link := range all {
		if link.Target != parentID {
			continue
		}

		item, err := s.blobs.Load(Namespace, itemKey(link.Source))
		if err != nil {
			return nil, fmt.Errorf("materialize %d: %w", parentID, err)
		}
		if item == nil {
			// Dangling link; tolerated.
			continue
		}

		children, err := s.Materialize(ctx, link.Source)
		if err != nil {
			return nil, err
		}
		node := Node{Item: item, LinkID: link.ID, ItemID: link.Source}
		if len(children) > 0 {
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// AllItems returns every stored item as a flat list with bookkeeping ids.
// Links without a blob are skipped.
func (s *Service) AllItems(ctx context.Context) ([]FlatItem, error) {
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("all items: %w", err)
	}

	items := []FlatItem{}
	for _, link := range all {
		item, err := s.blobs.Load(Namespace, itemKey(link.Source))
		if err != nil {
			return nil, fmt.Errorf("all items: %w", err)
		}
		if item == nil {
			continue
		}
		items = append(items, FlatItem{
			Item:     item,
			LinkID:   link.ID,
			ItemID:   link.Source,
			ParentID: link.Target,
		})
	}
	return items, nil
}

// DeleteSubtree removes the item and all its descendants, children before
// parents: each descendant's links and blob go first, then every link whose
// source is the item, then the item's own blob. Failures on individual
// children or files are logged and do not abort the rest of the sweep.
func (s *Service) DeleteSubtree(ctx context.Context, itemID int64) error {
	children, err := s.Materialize(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete subtree %d: %w", itemID, err)
	}
	for _, child := range children {
		if err := s.DeleteSubtree(ctx, child.ItemID); err != nil {
			s.log.Warn("failed to delete child subtree", "itemId", child.ItemID, "error", err)
		}
	}

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("delete subtree %d: %w", itemID, err)
	}
	for _, link := range all {
		if link.Source != itemID {
			continue
		}
		if err := s.store.Delete(ctx, link.ID); err != nil {
			s.log.Warn("failed to delete link", "linkId", link.ID, "itemId", itemID, "error", err)
		}
	}

	if err := s.blobs.Delete(Namespace, itemKey(itemID)); err != nil {
		s.log.Warn("failed to delete item document", "itemId", itemID, "error", err)
	}
	return nil
}

// ClearAll removes every link and every item document.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear menus: %w", err)
	}
	if err := s.blobs.Clear(Namespace); err != nil {
		return fmt.Errorf("clear menus: %w", err)
	}
	return nil
}
