package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// edgeInsertError maps a failed like/bookmark insert to a domain error.
func edgeInsertError(op string, err error) error {
	if constraint, ok := foreignKeyViolation(err); ok {
		if constraint == "likes_user_id_fkey" || constraint == "bookmarks_user_id_fkey" {
			return ErrUserNotFound
		}
		return ErrLinkNotFound
	}
	return storageError(op, err)
}

// LikeLink records that userID likes linkID and bumps the link's counter. Returns
// false without changing anything if the like already exists.
func (d *DB) LikeLink(ctx context.Context, userID, linkID int64) (bool, error) {
	var applied bool
	err := d.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO likes (user_id, link_id) VALUES ($1, $2)
			ON CONFLICT (user_id, link_id) DO NOTHING
		`, userID, linkID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE links SET likes_count = likes_count + 1 WHERE id = $1`, linkID); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, edgeInsertError("like link", err)
	}
	return applied, nil
}

// UnlikeLink removes userID's like of linkID and decrements the counter. Returns
// false without touching the counter if there was no like.
func (d *DB) UnlikeLink(ctx context.Context, userID, linkID int64) (bool, error) {
	var applied bool
	err := d.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND link_id = $2`, userID, linkID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE links SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1`, linkID); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, storageError("unlike link", err)
	}
	return applied, nil
}

// BookmarkLink records a bookmark. Returns false if it already exists.
func (d *DB) BookmarkLink(ctx context.Context, userID, linkID int64) (bool, error) {
	tag, err := d.Pool.Exec(ctx, `
		INSERT INTO bookmarks (user_id, link_id) VALUES ($1, $2)
		ON CONFLICT (user_id, link_id) DO NOTHING
	`, userID, linkID)
	if err != nil {
		return false, edgeInsertError("bookmark link", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UnbookmarkLink removes a bookmark. Returns false if there was none.
func (d *DB) UnbookmarkLink(ctx context.Context, userID, linkID int64) (bool, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND link_id = $2`, userID, linkID)
	if err != nil {
		return false, storageError("unbookmark link", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetUserLikes returns the IDs of the links a user likes.
func (d *DB) GetUserLikes(ctx context.Context, userID int64) ([]int64, error) {
	return d.queryLinkIDs(ctx, "get user likes", `SELECT link_id FROM likes WHERE user_id = $1`, userID)
}

// GetUserBookmarks returns the IDs of the links a user bookmarked.
func (d *DB) GetUserBookmarks(ctx context.Context, userID int64) ([]int64, error) {
	return d.queryLinkIDs(ctx, "get user bookmarks", `SELECT link_id FROM bookmarks WHERE user_id = $1`, userID)
}

func (d *DB) queryLinkIDs(ctx context.Context, op, query string, userID int64) ([]int64, error) {
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, storageError(op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, storageError(op, err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
