// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go holds the pure tree algorithms used by CategoryStore. The
// category table stores parent links only; the children adjacency is
// rebuilt in memory on every read. Nothing prevents an admin edit from
// introducing a parent cycle, so every walk is bounded by a visited set.
package store

import (
	"sort"

	"github.com/google/uuid"

	"promptlib/internal/models"
)

// buildTree recursively builds a nested tree from a flat category list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// flattenTree walks a category tree depth-first, appending to result.
// Useful for <select> dropdowns where Depth drives indentation.
func flattenTree(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		*result = append(*result, c)
		if len(c.Children) > 0 {
			flattenTree(c.Children, result)
		}
	}
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// parentIndex maps each category ID to its parent pointer.
func parentIndex(flat []models.Category) map[uuid.UUID]*uuid.UUID {
	idx := make(map[uuid.UUID]*uuid.UUID, len(flat))
	for _, c := range flat {
		idx[c.ID] = c.ParentID
	}
	return idx
}

// childrenIndex maps each category ID to the IDs of its direct children.
func childrenIndex(flat []models.Category) map[uuid.UUID][]uuid.UUID {
	idx := make(map[uuid.UUID][]uuid.UUID, len(flat))
	for _, c := range flat {
		if c.ParentID != nil {
			idx[*c.ParentID] = append(idx[*c.ParentID], c.ID)
		}
	}
	return idx
}

// subtreeIDs returns the IDs of root and every descendant, walking the
// children adjacency iteratively. The visited set guarantees termination
// even if the stored parent graph contains a cycle.
func subtreeIDs(flat []models.Category, root uuid.UUID) map[uuid.UUID]bool {
	children := childrenIndex(flat)
	visited := map[uuid.UUID]bool{root: true}
	queue := []uuid.UUID{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if visited[child] {
				continue
			}
			visited[child] = true
			queue = append(queue, child)
		}
	}
	return visited
}

// ancestorIDs returns the ancestor chain of id, ordered from the
// immediate parent up to the root. A visited set bounds the walk so a
// cyclic parent chain cannot loop forever.
func ancestorIDs(flat []models.Category, id uuid.UUID) []uuid.UUID {
	parents := parentIndex(flat)
	visited := map[uuid.UUID]bool{id: true}

	var chain []uuid.UUID
	current := id
	for {
		parent, ok := parents[current]
		if !ok || parent == nil || visited[*parent] {
			return chain
		}
		visited[*parent] = true
		chain = append(chain, *parent)
		current = *parent
	}
}

// rollupCounts turns per-category leaf counts (published prompts whose
// category_id is exactly that category) into subtree totals: a parent's
// value is the sum of published prompts anywhere in its subtree.
// Nodes are processed deepest-first so each node's accumulated total is
// added into its parent exactly once.
func rollupCounts(flat []models.Category, leaf map[uuid.UUID]int) map[uuid.UUID]int {
	parents := parentIndex(flat)

	result := make(map[uuid.UUID]int, len(flat))
	for _, c := range flat {
		result[c.ID] = leaf[c.ID]
	}

	// Sort by depth, deepest first. Depth is the ancestor chain length,
	// which the visited set keeps finite for cyclic input.
	ordered := make([]uuid.UUID, 0, len(flat))
	depth := make(map[uuid.UUID]int, len(flat))
	for _, c := range flat {
		ordered = append(ordered, c.ID)
		depth[c.ID] = len(ancestorIDs(flat, c.ID))
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return depth[ordered[i]] > depth[ordered[j]]
	})

	for _, id := range ordered {
		parent := parents[id]
		if parent == nil {
			continue
		}
		if _, ok := result[*parent]; !ok {
			// Dangling parent reference; nothing to propagate into.
			continue
		}
		// Skip self-parented nodes so a malformed cycle cannot double-count.
		if *parent == id {
			continue
		}
		result[*parent] += result[id]
	}
	return result
}
