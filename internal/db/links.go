package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"linkhub/internal/models"
	"linkhub/internal/validation"
)

// linkDetailsQuery selects links joined with their category name and owner username.
const linkDetailsQuery = `
	SELECT l.id, l.title, l.url, l.description, l.image_url, l.category_id, l.owner_id,
	       l.likes_count, l.is_sensitive, l.created_at, c.name, u.username
	FROM links l
	JOIN categories c ON c.id = l.category_id
	JOIN users u ON u.id = l.owner_id`

// sensitivityGate is the only visibility filter for list queries. $1 is
// includeSensitive. Single-link lookups use Link.VisibleTo instead, which also
// lets owners see their own sensitive links.
const sensitivityGate = `($1::boolean OR NOT l.is_sensitive)`

const newestFirst = ` ORDER BY l.created_at DESC, l.id DESC`

// scanLinkDetails scans a row into a LinkWithDetails struct.
func scanLinkDetails(row pgx.Row) (*models.LinkWithDetails, error) {
	var link models.LinkWithDetails
	err := row.Scan(
		&link.ID,
		&link.Title,
		&link.URL,
		&link.Description,
		&link.ImageURL,
		&link.CategoryID,
		&link.OwnerID,
		&link.LikesCount,
		&link.IsSensitive,
		&link.CreatedAt,
		&link.CategoryName,
		&link.Author,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// scanLinksDetails scans multiple rows into a slice of LinkWithDetails.
func scanLinksDetails(rows pgx.Rows) ([]models.LinkWithDetails, error) {
	defer rows.Close()

	links := make([]models.LinkWithDetails, 0)
	for rows.Next() {
		link, err := scanLinkDetails(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}

	return links, rows.Err()
}

func (d *DB) queryLinks(ctx context.Context, op, query string, args ...any) ([]models.LinkWithDetails, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	links, err := scanLinksDetails(rows)
	if err != nil {
		return nil, storageError(op, err)
	}
	return links, nil
}

func nullIfEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// CreateLink stores a new link owned by link.OwnerID. ID, LikesCount and CreatedAt
// are filled in on success. A category or owner that does not exist is rejected.
func (d *DB) CreateLink(ctx context.Context, link *models.Link) error {
	var imageURL string
	if link.ImageURL != nil {
		imageURL = *link.ImageURL
	}
	if valid, msg := validation.ValidateLink(link.Title, link.URL, imageURL, link.CategoryID); !valid {
		return invalid(msg)
	}
	if link.OwnerID <= 0 {
		return invalid("Owner is required")
	}

	query := `
		INSERT INTO links (title, url, description, image_url, category_id, owner_id, is_sensitive)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, likes_count, created_at
	`

	err := d.Pool.QueryRow(ctx, query,
		link.Title,
		link.URL,
		nullIfEmpty(link.Description),
		nullIfEmpty(link.ImageURL),
		link.CategoryID,
		link.OwnerID,
		link.IsSensitive,
	).Scan(&link.ID, &link.LikesCount, &link.CreatedAt)

	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok {
			if constraint == "links_owner_id_fkey" {
				return invalid("Owner does not exist")
			}
			return invalid("Category does not exist")
		}
		return storageError("create link", err)
	}

	return nil
}

// ListLinks returns links newest first. Sensitive links are left out unless
// includeSensitive is set.
func (d *DB) ListLinks(ctx context.Context, includeSensitive bool) ([]models.LinkWithDetails, error) {
	query := linkDetailsQuery + ` WHERE ` + sensitivityGate + newestFirst
	return d.queryLinks(ctx, "list links", query, includeSensitive)
}

// ListLinksByCategory is ListLinks restricted to one category.
func (d *DB) ListLinksByCategory(ctx context.Context, categoryID int64, includeSensitive bool) ([]models.LinkWithDetails, error) {
	query := linkDetailsQuery + ` WHERE ` + sensitivityGate + ` AND l.category_id = $2` + newestFirst
	return d.queryLinks(ctx, "list links by category", query, includeSensitive, categoryID)
}

// ListLinksByOwner returns every link a user submitted, sensitive or not.
func (d *DB) ListLinksByOwner(ctx context.Context, ownerID int64) ([]models.LinkWithDetails, error) {
	query := linkDetailsQuery + ` WHERE l.owner_id = $1` + newestFirst
	return d.queryLinks(ctx, "list links by owner", query, ownerID)
}

// GetLinkByID retrieves a link by its ID.
func (d *DB) GetLinkByID(ctx context.Context, id int64) (*models.LinkWithDetails, error) {
	query := linkDetailsQuery + ` WHERE l.id = $1`
	link, err := scanLinkDetails(d.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storageError("get link", err)
	}
	return link, nil
}

// DeleteLink deletes a link owned by requesterID together with every like and
// bookmark that references it. Returns ErrForbidden if the requester is not the owner.
func (d *DB) DeleteLink(ctx context.Context, id int64, requesterID int64) error {
	err := d.inTx(ctx, func(tx pgx.Tx) error {
		var ownerID int64
		err := tx.QueryRow(ctx, `SELECT owner_id FROM links WHERE id = $1 FOR UPDATE`, id).Scan(&ownerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLinkNotFound
		}
		if err != nil {
			return err
		}
		if ownerID != requesterID {
			return ErrForbidden
		}

		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE link_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM bookmarks WHERE link_id = $1`, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return storageError("delete link", err)
	}
	return nil
}
