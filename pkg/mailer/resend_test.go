package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestResend(t *testing.T, h http.HandlerFunc) *ResendSender {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	s := NewResendSender("re_test")
	u, err := url.Parse(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	s.client.BaseURL = u
	return s
}

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	s := newTestResend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			http.NotFound(w, r)
			return
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	})

	err := s.Send(context.Background(), Message{
		From:        "me@example.com",
		FromName:    "Jane",
		To:          "alice@x.com",
		Subject:     "Hello",
		Body:        "Hi alice",
		Attachments: []Attachment{{Filename: "resume.pdf", Content: []byte("pdf")}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got["subject"] != "Hello" || got["text"] != "Hi alice" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if got["from"] != `"Jane" <me@example.com>` {
		t.Fatalf("unexpected from: %v", got["from"])
	}
	atts, _ := got["attachments"].([]any)
	if len(atts) != 1 {
		t.Fatalf("want 1 attachment, got %v", got["attachments"])
	}
}

func TestResendSender_SendError(t *testing.T) {
	s := newTestResend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to"}`))
	})

	err := s.Send(context.Background(), Message{From: "me@example.com", To: "bad", Subject: "s", Body: "b"})
	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("want DeliveryError, got %v", err)
	}
}

func TestResendSender_ProbeEmptyKey(t *testing.T) {
	if err := NewResendSender("").Probe(context.Background()); !errors.Is(err, ErrAuth) {
		t.Fatalf("want ErrAuth, got %v", err)
	}
}
