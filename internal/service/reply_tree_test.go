package service

import (
	"context"
	"errors"
	"testing"

	"qaforum/internal/blob"
	"qaforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn          func(context.Context, *models.Reply) error
	getByIDFn         func(context.Context, uint) (*models.Reply, error)
	listRootsFn       func(context.Context, uint) ([]*models.Reply, error)
	listDescendantsFn func(context.Context, uint) ([]*models.Reply, error)
	deleteFn          func(context.Context, uint) (int64, error)
}

func (s *replyRepoStub) Create(ctx context.Context, reply *models.Reply) error {
	return s.createFn(ctx, reply)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) ListRoots(ctx context.Context, postID uint) ([]*models.Reply, error) {
	return s.listRootsFn(ctx, postID)
}
func (s *replyRepoStub) ListDescendants(ctx context.Context, replyID uint) ([]*models.Reply, error) {
	return s.listDescendantsFn(ctx, replyID)
}
func (s *replyRepoStub) Delete(ctx context.Context, id uint) (int64, error) {
	return s.deleteFn(ctx, id)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn:          func(_ context.Context, _ *models.Reply) error { return nil },
		getByIDFn:         func(_ context.Context, id uint) (*models.Reply, error) { return &models.Reply{ID: id}, nil },
		listRootsFn:       func(_ context.Context, _ uint) ([]*models.Reply, error) { return nil, nil },
		listDescendantsFn: func(_ context.Context, _ uint) ([]*models.Reply, error) { return nil, nil },
		deleteFn:          func(_ context.Context, _ uint) (int64, error) { return 1, nil },
	}
}

func ptrUint(v uint) *uint { return &v }

func TestReplyTreeAssembler_EmptyForest(t *testing.T) {
	t.Parallel()

	asm := NewReplyTreeAssembler(noopReplyRepo(), noopBlobStore())
	roots, err := asm.Assemble(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestReplyTreeAssembler_NestsThreeLevels(t *testing.T) {
	t.Parallel()

	// Forest shape under post 1:
	//   reply 1
	//     reply 2
	//       reply 4
	//     reply 3
	//   reply 5
	replies := noopReplyRepo()
	replies.listRootsFn = func(_ context.Context, postID uint) ([]*models.Reply, error) {
		require.Equal(t, uint(1), postID)
		return []*models.Reply{
			{ID: 1, PostID: 1, Content: "first"},
			{ID: 5, PostID: 1, Content: "second"},
		}, nil
	}
	replies.listDescendantsFn = func(_ context.Context, replyID uint) ([]*models.Reply, error) {
		if replyID == 1 {
			// Flat (level, created_at)-ordered rows as the recursive fetch returns them.
			return []*models.Reply{
				{ID: 2, PostID: 1, ParentReplyID: ptrUint(1), Level: 0},
				{ID: 3, PostID: 1, ParentReplyID: ptrUint(1), Level: 0},
				{ID: 4, PostID: 1, ParentReplyID: ptrUint(2), Level: 1},
			}, nil
		}
		return nil, nil
	}

	asm := NewReplyTreeAssembler(replies, noopBlobStore())
	roots, err := asm.Assemble(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(5), roots[1].ID)

	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, uint(2), roots[0].Replies[0].ID)
	assert.Equal(t, uint(3), roots[0].Replies[1].ID)

	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(4), roots[0].Replies[0].Replies[0].ID)

	assert.Empty(t, roots[0].Replies[1].Replies)
	assert.Empty(t, roots[1].Replies)
}

func TestReplyTreeAssembler_OrphanAttachesUnderRoot(t *testing.T) {
	t.Parallel()

	replies := noopReplyRepo()
	replies.listRootsFn = func(_ context.Context, _ uint) ([]*models.Reply, error) {
		return []*models.Reply{{ID: 1, PostID: 1}}, nil
	}
	replies.listDescendantsFn = func(_ context.Context, _ uint) ([]*models.Reply, error) {
		// Parent 77 is not part of the fetched set.
		return []*models.Reply{
			{ID: 9, PostID: 1, ParentReplyID: ptrUint(77), Level: 0},
		}, nil
	}

	asm := NewReplyTreeAssembler(replies, noopBlobStore())
	roots, err := asm.Assemble(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 1, "orphan should fall back under the root, not be dropped")
	assert.Equal(t, uint(9), roots[0].Replies[0].ID)
}

func TestReplyTreeAssembler_HydratesScreenshots(t *testing.T) {
	t.Parallel()

	shotRoot := "shot-root"
	shotChild := "shot-child"
	replies := noopReplyRepo()
	replies.listRootsFn = func(_ context.Context, _ uint) ([]*models.Reply, error) {
		return []*models.Reply{{ID: 1, PostID: 1, ScreenshotID: &shotRoot}}, nil
	}
	replies.listDescendantsFn = func(_ context.Context, _ uint) ([]*models.Reply, error) {
		return []*models.Reply{
			{ID: 2, PostID: 1, ParentReplyID: ptrUint(1), ScreenshotID: &shotChild},
		}, nil
	}

	blobs := noopBlobStore()
	blobs.getFn = func(_ context.Context, id string) (*blob.Document, error) {
		return &blob.Document{Data: "payload-" + id, ContentType: "image/png"}, nil
	}

	asm := NewReplyTreeAssembler(replies, blobs)
	roots, err := asm.Assemble(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, roots[0].Screenshot)
	assert.Equal(t, "payload-shot-root", *roots[0].Screenshot)
	require.NotNil(t, roots[0].Replies[0].Screenshot)
	assert.Equal(t, "payload-shot-child", *roots[0].Replies[0].Screenshot)
}

func TestReplyTreeAssembler_MissingBlobDegradesPerNode(t *testing.T) {
	t.Parallel()

	gone := "gone"
	present := "present"
	replies := noopReplyRepo()
	replies.listRootsFn = func(_ context.Context, _ uint) ([]*models.Reply, error) {
		return []*models.Reply{
			{ID: 1, PostID: 1, ScreenshotID: &gone},
			{ID: 2, PostID: 1, ScreenshotID: &present},
		}, nil
	}

	blobs := noopBlobStore()
	blobs.getFn = func(_ context.Context, id string) (*blob.Document, error) {
		if id == "gone" {
			return nil, blob.ErrNotFound
		}
		return &blob.Document{Data: "ok", ContentType: "image/png"}, nil
	}

	asm := NewReplyTreeAssembler(replies, blobs)
	roots, err := asm.Assemble(context.Background(), 1)
	require.NoError(t, err, "a missing blob must not fail assembly")
	assert.Nil(t, roots[0].Screenshot)
	require.NotNil(t, roots[1].Screenshot)
	assert.Equal(t, "ok", *roots[1].Screenshot)
}

func TestReplyTreeAssembler_StorageErrorFailsAssembly(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection reset")
	replies := noopReplyRepo()
	replies.listRootsFn = func(_ context.Context, _ uint) ([]*models.Reply, error) {
		return []*models.Reply{{ID: 1, PostID: 1}}, nil
	}
	replies.listDescendantsFn = func(_ context.Context, _ uint) ([]*models.Reply, error) {
		return nil, dbErr
	}

	asm := NewReplyTreeAssembler(replies, noopBlobStore())
	_, err := asm.Assemble(context.Background(), 1)
	assert.ErrorIs(t, err, dbErr)
}
