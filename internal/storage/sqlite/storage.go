// Package sqlite provides a SQLite-backed notification repository.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var _ domain.NotificationRepository = (*SQLiteStorage)(nil)

const notificationColumns = `n.id, n.created_at, n.updated_at, n.transaction_id, n.subscriber_id,
	n.template_identifier, n.provider_id, n.content, n.subject, n.channel, n.status,
	n.read, n.seen, n.archived, n.deleted, n.actor_type, n.actor_data,
	n.cta_type, n.cta_url, n.cta_target, n.payload`

// SQLiteStorage implements domain.NotificationRepository using SQLite.
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage creates a SQLite-backed storage at the provided path.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	storage := &SQLiteStorage{db: db, now: time.Now}
	if err := storage.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return storage, nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) init() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return nil
}

// Add stores a notification and returns its ID. A missing ID is generated
// and a missing creation time defaults to now.
func (s *SQLiteStorage) Add(ctx context.Context, n domain.Notification) (string, error) {
	if err := n.Validate(); err != nil {
		return "", fmt.Errorf("sqlite storage: add notification: %w", err)
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	} else if _, err := uuid.Parse(n.ID); err != nil {
		return "", fmt.Errorf("sqlite storage: add notification: %w: %q", domain.ErrInvalidNotificationID, n.ID)
	}

	now := s.now().UTC()
	created := now
	if n.CreatedAt != nil {
		created = n.CreatedAt.UTC()
	}

	var actorType string
	var actorData *string
	if n.Actor != nil {
		actorType = string(n.Actor.Type)
		actorData = n.Actor.Data
	}

	var payload *string
	if len(n.Payload) > 0 {
		raw, err := json.Marshal(n.Payload)
		if err != nil {
			return "", fmt.Errorf("sqlite storage: encode payload: %w", err)
		}
		encoded := string(raw)
		payload = &encoded
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("sqlite storage: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO notifications (
		id, created_at, updated_at, transaction_id, subscriber_id, template_identifier,
		provider_id, content, subject, channel, status, read, seen, archived,
		actor_type, actor_data, cta_type, cta_url, cta_target, payload
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, created.UnixNano(), now.UnixNano(), n.TransactionID, n.SubscriberID, n.TemplateIdentifier,
		n.ProviderID, n.Content, n.Subject, string(n.Channel), string(n.Status), n.Read, n.Seen, n.Archived,
		actorType, actorData, string(n.CTA.Type), n.CTA.Data.URL, n.CTA.Data.Target, payload,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite storage: add notification: %w", err)
	}

	for i, tag := range n.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notification_tags (notification_id, position, tag) VALUES (?, ?, ?)`,
			n.ID, i, tag,
		); err != nil {
			return "", fmt.Errorf("sqlite storage: add tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("sqlite storage: commit notification: %w", err)
	}
	return n.ID, nil
}

// Get retrieves a notification by ID. Soft-deleted notifications are not found.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*domain.Notification, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications n WHERE n.id = ? AND n.deleted = 0`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sqlite storage: get notification: %w: id %s", domain.ErrNotificationNotFound, id)
		}
		return nil, fmt.Errorf("sqlite storage: get notification: %w", err)
	}

	tags, err := s.loadTags(ctx, []string{n.ID})
	if err != nil {
		return nil, err
	}
	n.Tags = tagsOrEmpty(tags[n.ID])
	return &n, nil
}

// List returns notifications matching q, newest first.
func (s *SQLiteStorage) List(ctx context.Context, q domain.Query) ([]domain.Notification, error) {
	where, args := buildWhere(q)
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications n`+where+
			` ORDER BY n.created_at DESC, n.seq DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list notifications: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Notification, 0)
	ids := make([]string, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite storage: scan notification: %w", err)
		}
		result = append(result, n)
		ids = append(ids, n.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list notifications: %w", err)
	}

	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Tags = tagsOrEmpty(tags[result[i].ID])
	}
	return result, nil
}

// Count returns the number of notifications matching q, ignoring paging.
func (s *SQLiteStorage) Count(ctx context.Context, q domain.Query) (int, error) {
	where, args := buildWhere(q)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications n`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite storage: count notifications: %w", err)
	}
	return count, nil
}

// MarkRead sets the read flag. Reading a notification also marks it seen.
func (s *SQLiteStorage) MarkRead(ctx context.Context, id string, read bool) error {
	return s.update(ctx, "mark read", id,
		`UPDATE notifications SET read = ?, seen = CASE WHEN ? THEN 1 ELSE seen END, updated_at = ?
		 WHERE id = ? AND deleted = 0`,
		read, read, s.now().UTC().UnixNano(), id)
}

// Archive sets the archived flag.
func (s *SQLiteStorage) Archive(ctx context.Context, id string, archived bool) error {
	return s.update(ctx, "archive", id,
		`UPDATE notifications SET archived = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		archived, s.now().UTC().UnixNano(), id)
}

// Delete soft-deletes a notification. Deleted rows are purged by Cleanup.
func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	now := s.now().UTC().UnixNano()
	return s.update(ctx, "delete", id,
		`UPDATE notifications SET deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		now, now, id)
}

func (s *SQLiteStorage) update(ctx context.Context, op, id, query string, args ...any) error {
	if err := validateID(id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite storage: %s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite storage: read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sqlite storage: %s: %w: id %s", op, domain.ErrNotificationNotFound, id)
	}
	return nil
}

func (s *SQLiteStorage) loadTags(ctx context.Context, ids []string) (map[string][]string, error) {
	tags := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT notification_id, tag FROM notification_tags WHERE notification_id IN (`+placeholders(len(ids))+`)
		 ORDER BY notification_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan tag: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: load tags: %w", err)
	}
	return tags, nil
}

// buildWhere translates a feed query into a WHERE clause. Tags match any-of.
func buildWhere(q domain.Query) (string, []any) {
	clauses := []string{"n.deleted = 0"}
	var args []any
	if q.Archived != nil {
		clauses = append(clauses, "n.archived = ?")
		args = append(args, *q.Archived)
	}
	if q.Read != nil {
		clauses = append(clauses, "n.read = ?")
		args = append(args, *q.Read)
	}
	if len(q.Tags) > 0 {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM notification_tags t WHERE t.notification_id = n.id AND t.tag IN ("+placeholders(len(q.Tags))+"))")
		for _, tag := range q.Tags {
			args = append(args, tag)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (domain.Notification, error) {
	var (
		n                      domain.Notification
		createdAt, updatedAt   int64
		channel, status        string
		actorType, ctaType     string
		actorData, payloadText sql.NullString
		templateIdentifier     sql.NullString
		providerID, subject    sql.NullString
	)
	err := row.Scan(
		&n.ID, &createdAt, &updatedAt, &n.TransactionID, &n.SubscriberID,
		&templateIdentifier, &providerID, &n.Content, &subject, &channel, &status,
		&n.Read, &n.Seen, &n.Archived, &n.Deleted, &actorType, &actorData,
		&ctaType, &n.CTA.Data.URL, &n.CTA.Data.Target, &payloadText,
	)
	if err != nil {
		return domain.Notification{}, err
	}

	created := time.Unix(0, createdAt).UTC()
	updated := time.Unix(0, updatedAt).UTC()
	n.CreatedAt = &created
	n.UpdatedAt = &updated
	n.Channel = domain.ChannelType(channel)
	n.Status = domain.DeliveryStatus(status)
	n.CTA.Type = domain.CTAType(ctaType)
	n.TemplateIdentifier = nullString(templateIdentifier)
	n.ProviderID = nullString(providerID)
	n.Subject = nullString(subject)
	if actorType != "" {
		n.Actor = &domain.Actor{Type: domain.ActorType(actorType), Data: nullString(actorData)}
	}
	if payloadText.Valid {
		if err := json.Unmarshal([]byte(payloadText.String), &n.Payload); err != nil {
			return domain.Notification{}, fmt.Errorf("decode payload: %w", err)
		}
	}
	return n, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("sqlite storage: %w: empty", domain.ErrInvalidNotificationID)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("sqlite storage: %w: %q", domain.ErrInvalidNotificationID, id)
	}
	return nil
}
