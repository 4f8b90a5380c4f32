// Package domain provides the domain layer for notifications.
// It holds the feed wire types and the repository contract used by storage.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// ChannelType is the delivery channel of a notification.
type ChannelType string

const (
	ChannelInApp ChannelType = "in_app"
	ChannelEmail ChannelType = "email"
	ChannelSMS   ChannelType = "sms"
	ChannelChat  ChannelType = "chat"
	ChannelPush  ChannelType = "push"
)

// IsValid checks if the channel type is valid.
func (c ChannelType) IsValid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelSMS, ChannelChat, ChannelPush:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel.
func (c ChannelType) String() string {
	return string(c)
}

// ParseChannelType converts user input into a ChannelType.
func ParseChannelType(raw string) (ChannelType, error) {
	c := ChannelType(raw)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid channel type: %q", raw)
	}
	return c, nil
}

// DeliveryStatus is the provider outcome of sending a notification.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryError   DeliveryStatus = "error"
	DeliveryWarning DeliveryStatus = "warning"
)

// IsValid checks if the delivery status is valid.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliverySent, DeliveryError, DeliveryWarning:
		return true
	default:
		return false
	}
}

// ActorType indicates the role of the actor in the notification.
type ActorType string

const (
	ActorNone         ActorType = "none"
	ActorUser         ActorType = "user"
	ActorSystemIcon   ActorType = "system_icon"
	ActorSystemCustom ActorType = "system_custom"
)

// Actor describes who or what caused the notification.
type Actor struct {
	// Data can be nil when not applicable.
	Data *string   `json:"data"`
	Type ActorType `json:"type"`
}

// CTAType is the kind of call to action attached to a notification.
type CTAType string

// CTARedirect is the only call to action type the inbox follows.
const CTARedirect CTAType = "redirect"

// CTAData carries the call to action target.
type CTAData struct {
	URL    string `json:"url,omitempty"`
	Target string `json:"target,omitempty"`
}

// MessageCTA is the call to action information associated with a notification.
type MessageCTA struct {
	Type CTAType `json:"type,omitempty"`
	Data CTAData `json:"data"`
}

// Notification is a single item of the notification feed.
type Notification struct {
	ID                 string         `json:"_id"`
	TemplateID         string         `json:"_templateId"`
	EnvironmentID      string         `json:"_environmentId"`
	MessageTemplateID  string         `json:"_messageTemplateId"`
	OrganizationID     string         `json:"_organizationId"`
	NotificationID     string         `json:"_notificationId"`
	SubscriberID       string         `json:"_subscriberId"`
	FeedID             string         `json:"_feedId"`
	JobID              string         `json:"_jobId"`
	CreatedAt          *time.Time     `json:"createdAt"`
	UpdatedAt          *time.Time     `json:"updatedAt"`
	Actor              *Actor         `json:"actor,omitempty"`
	TransactionID      string         `json:"transactionId"`
	TemplateIdentifier *string        `json:"templateIdentifier"`
	ProviderID         *string        `json:"providerId"`
	Content            string         `json:"content"`
	Subject            *string        `json:"subject,omitempty"`
	Channel            ChannelType    `json:"channel"`
	Read               bool           `json:"read"`
	Seen               bool           `json:"seen"`
	Archived           bool           `json:"archived"`
	Deleted            bool           `json:"deleted"`
	Tags               []string       `json:"tags"`
	DeviceTokens       []string       `json:"deviceTokens,omitempty"`
	CTA                MessageCTA     `json:"cta"`
	Status             DeliveryStatus `json:"status"`
	Payload            map[string]any `json:"payload,omitempty"`
	Overrides          map[string]any `json:"overrides,omitempty"`
}

var (
	// ErrEmptyContent is returned when a notification has no content.
	ErrEmptyContent = errors.New("notification content cannot be empty")
	// ErrInvalidChannel is returned for an unknown channel.
	ErrInvalidChannel = errors.New("invalid notification channel")
	// ErrInvalidStatus is returned for an unknown delivery status.
	ErrInvalidStatus = errors.New("invalid delivery status")
)

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.Content == "" {
		return ErrEmptyContent
	}
	if !n.Channel.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidChannel, n.Channel)
	}
	if !n.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, n.Status)
	}
	for _, tag := range n.Tags {
		if tag == "" {
			return fmt.Errorf("notification tags cannot contain empty values")
		}
	}
	return nil
}

// Matches reports whether the notification satisfies a feed predicate.
// Nil archived/read do not constrain; tags match when any tag is shared
// or when no tags are requested. Deleted notifications never match.
func (n *Notification) Matches(archived, read *bool, tags []string) bool {
	if n.Deleted {
		return false
	}
	if archived != nil && n.Archived != *archived {
		return false
	}
	if read != nil && n.Read != *read {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range n.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// RedirectURL returns the call to action URL when the notification has one.
func (n *Notification) RedirectURL() (url, target string, ok bool) {
	if n.CTA.Data.URL == "" {
		return "", "", false
	}
	return n.CTA.Data.URL, n.CTA.Data.Target, true
}
