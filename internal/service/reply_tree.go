// Package service implements the application's business logic on top of the
// repository and blob store layers.
package service

import (
	"context"
	"log/slog"

	"qaforum/internal/blob"
	"qaforum/internal/middleware"
	"qaforum/internal/models"
	"qaforum/internal/observability"
	"qaforum/internal/repository"
)

// ReplyTreeAssembler produces the full reply forest rooted at a post, each
// node carrying its author's display name and, when resolvable, its decoded
// screenshot. Callers must have already established that the post exists.
type ReplyTreeAssembler struct {
	replies repository.ReplyRepository
	blobs   blob.Store
}

// NewReplyTreeAssembler creates a new assembler.
func NewReplyTreeAssembler(replies repository.ReplyRepository, blobs blob.Store) *ReplyTreeAssembler {
	return &ReplyTreeAssembler{replies: replies, blobs: blobs}
}

// Assemble returns the reply forest for postID. Storage errors on the root
// or recursive fetches fail the whole assembly; screenshot lookups degrade
// per node and never do.
func (a *ReplyTreeAssembler) Assemble(ctx context.Context, postID uint) ([]*models.Reply, error) {
	roots, err := a.replies.ListRoots(ctx, postID)
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		flat, err := a.replies.ListDescendants(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		nest(root, flat)
		a.hydrate(ctx, root)
		for _, node := range flat {
			a.hydrate(ctx, node)
		}
	}

	return roots, nil
}

// nest regroups the flat, level-ordered descendant list into nested
// replies[] slices under each node's true parent. The (level, created_at)
// ordering of the fetch guarantees a parent is always seen before its
// children; a row whose parent is absent attaches under the root rather
// than being dropped.
func nest(root *models.Reply, flat []*models.Reply) {
	seen := map[uint]*models.Reply{root.ID: root}
	for _, node := range flat {
		parent := root
		if node.ParentReplyID != nil {
			if p, ok := seen[*node.ParentReplyID]; ok {
				parent = p
			}
		}
		parent.Replies = append(parent.Replies, node)
		seen[node.ID] = node
	}
}

// hydrate resolves the node's screenshot reference against the blob store.
// Any failure, including not-found, leaves the screenshot null; tree
// assembly must never abort because the attachment subsystem is unhappy.
func (a *ReplyTreeAssembler) hydrate(ctx context.Context, node *models.Reply) {
	if node.ScreenshotID == nil {
		return
	}

	doc, err := a.blobs.Get(ctx, *node.ScreenshotID)
	if err != nil {
		observability.ScreenshotHydrationFailures.Inc()
		middleware.Logger.WarnContext(ctx, "failed to fetch reply screenshot",
			slog.Uint64("reply_id", uint64(node.ID)),
			slog.String("screenshot_id", *node.ScreenshotID),
			slog.String("error", err.Error()),
		)
		return
	}
	node.Screenshot = &doc.Data
}
