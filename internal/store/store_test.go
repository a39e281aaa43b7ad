package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Mutter0815/ColdMailer/pkg/model"
)

var tplCols = []string{"type", "subject", "template", "updated_at"}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestSeedDefaults_EmptyTable(t *testing.T) {
	s, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM templates`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for _, d := range Defaults() {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO templates (type, subject, template)`)).
			WithArgs(d.Type, d.Subject, d.Body).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	n, err := s.SeedDefaults(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("want 3 seeded, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSeedDefaults_AlreadySeeded(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM templates`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	n, err := s.SeedDefaults(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("want 0 seeded, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSeedDefaults_InsertErrorRollsBack(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM templates`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO templates`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if _, err := s.SeedDefaults(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListTemplates(t *testing.T) {
	s, mock := newMock(t)
	now := time.Unix(0, 0).UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT type, subject, template, updated_at FROM templates ORDER BY type`)).
		WillReturnRows(sqlmock.NewRows(tplCols).
			AddRow("cold", "S1", "B1", now).
			AddRow("hr", "S2", "B2", now))

	out, err := s.ListTemplates(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Type != "cold" || out[1].Body != "B2" {
		t.Fatalf("unexpected templates: %+v", out)
	}
}

func TestGetTemplate_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE type = $1`)).
		WithArgs("referral").
		WillReturnError(sql.ErrNoRows)

	if _, err := s.GetTemplate(context.Background(), "referral"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateTemplate(t *testing.T) {
	s, mock := newMock(t)
	now := time.Unix(100, 0).UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE templates SET subject=$1, template=$2, updated_at=NOW() WHERE type=$3`)).
		WithArgs("New subject", "New body", "cold").
		WillReturnRows(sqlmock.NewRows(tplCols).AddRow("cold", "New subject", "New body", now))

	got, err := s.UpdateTemplate(context.Background(), "cold", "New subject", "New body")
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != "cold" || got.Subject != "New subject" || !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected template: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateTemplate_UnknownTypeSkipsDB(t *testing.T) {
	s, mock := newMock(t)

	if _, err := s.UpdateTemplate(context.Background(), "unknown", "s", "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateTemplate_MissingRow(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE templates`)).
		WithArgs("s", "b", "hr").
		WillReturnError(sql.ErrNoRows)

	if _, err := s.UpdateTemplate(context.Background(), "hr", "s", "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInsertOutcome(t *testing.T) {
	s, mock := newMock(t)
	at := time.Date(2025, 10, 2, 11, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO email_outcomes`)).
		WithArgs("c-1", "a@x.com", "cold", "error", sql.NullString{String: "boom", Valid: true}, at, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.InsertOutcome(context.Background(), model.OutcomeEvent{
		CampaignID: "c-1", Email: "a@x.com", EmailType: "cold",
		Status: "error", Error: "boom", ScheduledFor: at, AttemptedAt: at,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults_CoverAllTypes(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Defaults() {
		if !KnownType(d.Type) {
			t.Fatalf("unknown default type %q", d.Type)
		}
		if d.Subject == "" || d.Body == "" {
			t.Fatalf("empty default for %q", d.Type)
		}
		seen[d.Type] = true
	}
	if len(seen) != len(Types) {
		t.Fatalf("defaults cover %d of %d types", len(seen), len(Types))
	}
}
