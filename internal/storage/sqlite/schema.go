package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    transaction_id TEXT NOT NULL DEFAULT '',
    subscriber_id TEXT NOT NULL DEFAULT '',
    template_identifier TEXT,
    provider_id TEXT,
    content TEXT NOT NULL,
    subject TEXT,
    channel TEXT NOT NULL,
    status TEXT NOT NULL,
    read INTEGER NOT NULL DEFAULT 0 CHECK (read IN (0, 1)),
    seen INTEGER NOT NULL DEFAULT 0 CHECK (seen IN (0, 1)),
    archived INTEGER NOT NULL DEFAULT 0 CHECK (archived IN (0, 1)),
    deleted INTEGER NOT NULL DEFAULT 0 CHECK (deleted IN (0, 1)),
    deleted_at INTEGER,
    actor_type TEXT NOT NULL DEFAULT '',
    actor_data TEXT,
    cta_type TEXT NOT NULL DEFAULT '',
    cta_url TEXT NOT NULL DEFAULT '',
    cta_target TEXT NOT NULL DEFAULT '',
    payload TEXT
);

CREATE INDEX IF NOT EXISTS idx_notifications_feed
    ON notifications (deleted, archived, read, created_at DESC);

CREATE TABLE IF NOT EXISTS notification_tags (
    notification_id TEXT NOT NULL REFERENCES notifications (id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (notification_id, position)
);

CREATE INDEX IF NOT EXISTS idx_notification_tags_tag
    ON notification_tags (tag, notification_id);
`
