package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/dmitrijs2005/bizboard/internal/dbx"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var postColumns = []string{
	"id", "full_name", "company_name", "description", "email", "phone",
	"category_value", "category_label", "category_color",
	"created_at", "expires_at", "creator_id",
}

var notificationColumns = []string{"id", "post_id", "message", "read", "created_at"}

type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	return mapError("ping", err)
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	query, args, err := builder.Select(postColumns...).From("posts").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("list posts: build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list posts", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, mapError("list posts", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list posts", err)
	}
	return out, nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	query, args, err := builder.Select(postColumns...).From("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("get post: build query: %w", err)
	}

	p, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError("get post", err)
	}
	return p, nil
}

func (s *PostgresStore) InsertPost(ctx context.Context, p models.Post) (*models.Post, error) {
	query, args, err := builder.Insert("posts").
		Columns(postColumns[1:]...).
		Values(
			p.AuthorName, p.CompanyName, p.Description, p.ContactEmail, p.ContactPhone,
			p.Category.Value, p.Category.Label, p.Category.Color,
			p.CreatedAt, p.ExpiresAt, ownerArg(p.Owner),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("insert post: build query: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return nil, mapError("insert post", err)
	}
	p.Source = models.SourceRemote
	return &p, nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, p models.Post) (*models.Post, error) {
	query, args, err := builder.Update("posts").
		Set("full_name", p.AuthorName).
		Set("company_name", p.CompanyName).
		Set("description", p.Description).
		Set("email", p.ContactEmail).
		Set("phone", p.ContactPhone).
		Set("category_value", p.Category.Value).
		Set("category_label", p.Category.Label).
		Set("category_color", p.Category.Color).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING " + strings.Join(postColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("update post: build query: %w", err)
	}

	updated, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError("update post", err)
	}
	return updated, nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	query, args, err := builder.Delete("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("delete post: build query: %w", err)
	}
	return s.execOne(ctx, "delete post", query, args)
}

func (s *PostgresStore) InsertNotification(ctx context.Context, n models.Notification) error {
	query, args, err := builder.Insert("notifications").
		Columns("post_id", "message").
		Values(n.PostID, n.Message).
		ToSql()
	if err != nil {
		return fmt.Errorf("insert notification: build query: %w", err)
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return mapError("insert notification", err)
}

func (s *PostgresStore) ListUnreadNotifications(ctx context.Context) ([]models.Notification, error) {
	query, args, err := builder.Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"read": false}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list notifications: build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list notifications", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.PostID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, mapError("list notifications", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list notifications", err)
	}
	return out, nil
}

func (s *PostgresStore) MarkNotificationRead(ctx context.Context, id string) error {
	query, args, err := builder.Update("notifications").
		Set("read", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("mark notification read: build query: %w", err)
	}
	return s.execOne(ctx, "mark notification read", query, args)
}

// execOne runs a statement that must touch exactly one row.
func (s *PostgresStore) execOne(ctx context.Context, op, query string, args []any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p                    models.Post
		creatorID            sql.NullString
		createdAt, expiresAt time.Time
	)
	err := row.Scan(
		&p.ID, &p.AuthorName, &p.CompanyName, &p.Description, &p.ContactEmail, &p.ContactPhone,
		&p.Category.Value, &p.Category.Label, &p.Category.Color,
		&createdAt, &expiresAt, &creatorID,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.UTC()
	p.ExpiresAt = expiresAt.UTC()
	if creatorID.Valid && creatorID.String != "" {
		p.Owner = models.OwnedBy(creatorID.String)
	}
	p.Source = models.SourceRemote
	return &p, nil
}

func ownerArg(o models.Owner) any {
	if id, ok := o.Identity(); ok {
		return id
	}
	return nil
}
