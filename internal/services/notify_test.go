package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAfricasTalkingSenderSendSMS(t *testing.T) {
	var gotPath, gotAPIKey, gotTo, gotMessage, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apiKey")
		gotTo = r.PostForm.Get("to")
		gotMessage = r.PostForm.Get("message")
		gotFrom = r.PostForm.Get("from")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sender := &AfricasTalkingSender{
		BaseURL:  srv.URL,
		Username: "sandbox",
		APIKey:   "atsk_test",
		SenderID: "CHIROMO",
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}

	if err := sender.SendSMS(context.Background(), "+254712345678", "Your session is confirmed"); err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
	if gotPath != "/version1/messaging" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAPIKey != "atsk_test" {
		t.Errorf("apiKey header = %q", gotAPIKey)
	}
	if gotTo != "+254712345678" || gotMessage != "Your session is confirmed" || gotFrom != "CHIROMO" {
		t.Errorf("form = to %q, message %q, from %q", gotTo, gotMessage, gotFrom)
	}
}

func TestAfricasTalkingSenderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := &AfricasTalkingSender{
		BaseURL: srv.URL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
	if err := sender.SendSMS(context.Background(), "+254712345678", "hi"); err == nil {
		t.Error("expected error on non-2xx gateway status")
	}
}

func TestNotifierNilSendersAreNoOps(t *testing.T) {
	var n *Notifier
	n.SendEmailAsync("x@example.com", "s", "b") // must not panic
	n.SendSMSAsync("+254712345678", "b")

	empty := &Notifier{}
	empty.SendEmailAsync("x@example.com", "s", "b")
	empty.SendSMSAsync("+254712345678", "b")
}
