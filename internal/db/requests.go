package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"linkhub/internal/models"
)

// CreateContactRequest stores a contact request. Subject and message are required.
// For reports, a non-empty contentReference is prepended to the message.
// ID, Status and CreatedAt are filled in on success.
func (d *DB) CreateContactRequest(ctx context.Context, req *models.ContactRequest, contentReference string) error {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		return invalid("Subject and message are required")
	}
	if strings.ContainsAny(req.Subject, "\r\n") || strings.ContainsAny(req.RequestType, "\r\n") {
		return invalid("Subject must be a single line")
	}
	if req.RequestType == "" {
		req.RequestType = models.ContactTypeGeneral
	}
	if req.RequestType == models.ContactTypeReport && contentReference != "" {
		req.Message = "Content Reference: " + contentReference + "\n\n" + req.Message
	}

	query := `
		INSERT INTO contact_requests (user_id, request_type, subject, message, user_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at
	`

	err := d.Pool.QueryRow(ctx, query,
		req.UserID,
		req.RequestType,
		req.Subject,
		req.Message,
		req.UserEmail,
	).Scan(&req.ID, &req.Status, &req.CreatedAt)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return ErrUserNotFound
		}
		return storageError("create contact request", err)
	}

	return nil
}

// CreateRemovalRequest stores a data removal request. The caller must have obtained
// the user's explicit confirmation first.
func (d *DB) CreateRemovalRequest(ctx context.Context, req *models.RemovalRequest) error {
	if req.RemovalType == "" {
		req.RemovalType = models.RemovalTypeAccount
	}
	if !models.IsValidRemovalType(req.RemovalType) {
		return invalid("Invalid removal type")
	}

	query := `
		INSERT INTO data_removal_requests (user_id, removal_type, specific_links, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`

	err := d.Pool.QueryRow(ctx, query,
		req.UserID,
		req.RemovalType,
		joinLinkIDs(req.SpecificLinks),
		req.Reason,
	).Scan(&req.ID, &req.Status, &req.CreatedAt)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return ErrUserNotFound
		}
		return storageError("create removal request", err)
	}

	return nil
}

// ListRequestsByUser returns a user's contact and removal requests, newest first.
func (d *DB) ListRequestsByUser(ctx context.Context, userID int64) (*models.UserRequests, error) {
	contactRows, err := d.Pool.Query(ctx, `
		SELECT id, user_id, request_type, subject, message, user_email, status, created_at
		FROM contact_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, storageError("list contact requests", err)
	}
	contacts, err := pgx.CollectRows(contactRows, pgx.RowToStructByPos[models.ContactRequest])
	if err != nil {
		return nil, storageError("list contact requests", err)
	}

	removalRows, err := d.Pool.Query(ctx, `
		SELECT id, user_id, removal_type, COALESCE(specific_links, ''), reason, status, created_at
		FROM data_removal_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, storageError("list removal requests", err)
	}
	defer removalRows.Close()

	removals := make([]models.RemovalRequest, 0)
	for removalRows.Next() {
		var r models.RemovalRequest
		var specificLinks string
		if err := removalRows.Scan(
			&r.ID, &r.UserID, &r.RemovalType, &specificLinks, &r.Reason, &r.Status, &r.CreatedAt,
		); err != nil {
			return nil, storageError("list removal requests", err)
		}
		r.SpecificLinks = splitLinkIDs(specificLinks)
		removals = append(removals, r)
	}
	if err := removalRows.Err(); err != nil {
		return nil, storageError("list removal requests", err)
	}

	if contacts == nil {
		contacts = []models.ContactRequest{}
	}
	return &models.UserRequests{ContactRequests: contacts, RemovalRequests: removals}, nil
}

// joinLinkIDs serializes link IDs as a comma-delimited string, or NULL when empty.
func joinLinkIDs(ids []int64) any {
	if len(ids) == 0 {
		return nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// splitLinkIDs parses the output of joinLinkIDs, skipping malformed entries.
func splitLinkIDs(s string) []int64 {
	ids := []int64{}
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
