package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mutter0815/ColdMailer/pkg/model"
)

var ErrNotFound = errors.New("template not found")

// Campaign types; the set is fixed.
const (
	TypeCold     = "cold"
	TypeReferral = "referral"
	TypeHR       = "hr"
)

var Types = []string{TypeCold, TypeReferral, TypeHR}

func KnownType(t string) bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

type Template struct {
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Body      string    `json:"template"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store { return &Store{DB: db} }

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	type       TEXT PRIMARY KEY,
	subject    TEXT NOT NULL,
	template   TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS email_outcomes (
	id            BIGSERIAL PRIMARY KEY,
	campaign_id   TEXT NOT NULL,
	email         TEXT NOT NULL,
	email_type    TEXT NOT NULL,
	status        TEXT NOT NULL,
	error         TEXT,
	scheduled_for TIMESTAMPTZ NOT NULL,
	attempted_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS email_outcomes_campaign_idx ON email_outcomes (campaign_id);
`

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SeedDefaults fills an empty templates table with the built-in set and
// returns how many rows were inserted.
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	n := 0
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, t := range Defaults() {
			if err := s.InsertTemplate(ctx, tx, t); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) InsertTemplate(ctx context.Context, tx *sql.Tx, t Template) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO templates (type, subject, template)
		VALUES ($1,$2,$3)
	`, t.Type, t.Subject, t.Body)
	return err
}

func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT type, subject, template, updated_at
		FROM templates
		ORDER BY type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Template{}
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.Type, &t.Subject, &t.Body, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTemplate(ctx context.Context, typ string) (Template, error) {
	var t Template
	err := s.DB.QueryRowContext(ctx, `
		SELECT type, subject, template, updated_at
		FROM templates
		WHERE type = $1
	`, typ).Scan(&t.Type, &t.Subject, &t.Body, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, err
	}
	return t, nil
}

// UpdateTemplate rewrites subject and body of an existing type. Unknown
// types never reach the database.
func (s *Store) UpdateTemplate(ctx context.Context, typ, subject, body string) (Template, error) {
	if !KnownType(typ) {
		return Template{}, ErrNotFound
	}
	var t Template
	err := s.DB.QueryRowContext(ctx, `
		UPDATE templates
		   SET subject=$1, template=$2, updated_at=NOW()
		 WHERE type=$3
		RETURNING type, subject, template, updated_at
	`, subject, body, typ).Scan(&t.Type, &t.Subject, &t.Body, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, err
	}
	return t, nil
}

func (s *Store) InsertOutcome(ctx context.Context, ev model.OutcomeEvent) error {
	var errText sql.NullString
	if ev.Error != "" {
		errText = sql.NullString{String: ev.Error, Valid: true}
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO email_outcomes (campaign_id, email, email_type, status, error, scheduled_for, attempted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, ev.CampaignID, ev.Email, ev.EmailType, ev.Status, errText, ev.ScheduledFor, ev.AttemptedAt)
	return err
}
