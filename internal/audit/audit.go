package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
)

// Action represents the action being performed
type Action string

const (
	ActionRegister  Action = "register"
	ActionGrantRole Action = "grant_role"
	ActionDelete    Action = "delete_identity"
	ActionBootstrap Action = "bootstrap_super_user"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID
	ActorType    ActorType
	ActorID      string
	TargetID     string
	Action       Action
	Status       Status
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// Recorder persists audit events.
type Recorder interface {
	Log(ctx context.Context, event *Event) error
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS identity_audit_events (
		id            UUID PRIMARY KEY,
		actor_type    TEXT NOT NULL,
		actor_id      TEXT NOT NULL DEFAULT '',
		target_id     TEXT NOT NULL DEFAULT '',
		action        TEXT NOT NULL,
		status        TEXT NOT NULL,
		request_id    TEXT NOT NULL DEFAULT '',
		metadata      JSONB,
		error_message TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL
	)
`

const insertSQL = `
	INSERT INTO identity_audit_events (
		id, actor_type, actor_id, target_id, action, status,
		request_id, metadata, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// Logger writes audit events to Postgres
type Logger struct {
	db execer
}

// NewLogger creates a new audit logger
func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{db: pool}
}

// EnsureSchema creates the audit table when it does not exist yet.
func (l *Logger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.Exec(ctx, schemaSQL)
	return err
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	fill(ctx, event)

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := l.db.Exec(ctx, insertSQL,
		event.ID,
		event.ActorType,
		event.ActorID,
		event.TargetID,
		event.Action,
		event.Status,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)
	return err
}

// StdLogger writes audit events to the standard logger. It is used when no
// audit database is configured.
type StdLogger struct{}

func (StdLogger) Log(ctx context.Context, event *Event) error {
	fill(ctx, event)
	log.Printf("audit: %s %s actor=%s/%s target=%s request=%s err=%q",
		event.Action, event.Status, event.ActorType, event.ActorID,
		event.TargetID, event.RequestID, event.ErrorMessage)
	return nil
}

// fill sets the generated fields and the actor carried by ctx.
func fill(ctx context.Context, event *Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if a, ok := ActorFromContext(ctx); ok {
		if event.ActorID == "" {
			event.ActorID = a.ID
		}
		if event.RequestID == "" {
			event.RequestID = a.RequestID
		}
	}
	if event.ActorType == "" {
		if event.ActorID != "" {
			event.ActorType = ActorTypeUser
		} else {
			event.ActorType = ActorTypeSystem
		}
	}
}
