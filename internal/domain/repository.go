package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidNotificationID is returned when the notification ID is invalid.
	ErrInvalidNotificationID = errors.New("invalid notification ID")
)

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	// Add stores a notification and returns its generated ID.
	Add(ctx context.Context, n Notification) (string, error)

	// Get retrieves a notification by its ID.
	Get(ctx context.Context, id string) (*Notification, error)

	// List returns notifications matching q, newest first.
	List(ctx context.Context, q Query) ([]Notification, error)

	// Count returns the number of notifications matching q, ignoring Limit and Offset.
	Count(ctx context.Context, q Query) (int, error)

	// MarkRead sets the read flag of a notification.
	MarkRead(ctx context.Context, id string, read bool) error

	// Archive sets the archived flag of a notification.
	Archive(ctx context.Context, id string, archived bool) error

	// Delete soft-deletes a notification.
	Delete(ctx context.Context, id string) error
}
