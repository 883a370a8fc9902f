package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	TreeNotesKeyPrefix = "tree:%d:notes"
	LikeCountKeyPrefix = "note:%d:likes"
	TreeByKeyPrefix    = "tree:bykey:%s"
)

const (
	TreeNotesTTL = 1 * time.Minute
	LikeCountTTL = 5 * time.Minute
	TreeByKeyTTL = 10 * time.Minute
)

func TreeNotesKey(treeID uint) string {
	return fmt.Sprintf(TreeNotesKeyPrefix, treeID)
}

func LikeCountKey(noteID uint) string {
	return fmt.Sprintf(LikeCountKeyPrefix, noteID)
}

func TreeByKeyKey(key string) string {
	return fmt.Sprintf(TreeByKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateTreeNotes(ctx context.Context, treeID uint) {
	Invalidate(ctx, TreeNotesKey(treeID))
}

func InvalidateLikeCount(ctx context.Context, noteID uint) {
	Invalidate(ctx, LikeCountKey(noteID))
}
