package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// recordingSMS implements SMSSender and records every dispatch.
type recordingSMS struct {
	sent []struct{ to, body string }
	err  error
}

func (s *recordingSMS) SendSMS(ctx context.Context, to, body string) error {
	s.sent = append(s.sent, struct{ to, body string }{to, body})
	return s.err
}

func newTestRouter(sms *recordingSMS) *USSDRouter {
	return &USSDRouter{
		SMS:            sms,
		EmergencyPhone: "+254711000000",
		HelplinePhone:  "+254800720000",
	}
}

func TestUSSD_RootMenu(t *testing.T) {
	router := newTestRouter(&recordingSMS{})

	reply := router.Handle(context.Background(), "", "+254700111222")

	if reply.End {
		t.Error("root menu should continue the session")
	}
	rendered := reply.Render()
	if !strings.HasPrefix(rendered, "CON ") {
		t.Errorf("expected CON prefix, got %q", rendered)
	}
	for _, option := range []string{"1. Book Therapy Session", "2. Emergency Help", "3. My Account"} {
		if !strings.Contains(rendered, option) {
			t.Errorf("root menu missing option %q: %q", option, rendered)
		}
	}
}

func TestUSSD_BookingFlow(t *testing.T) {
	sms := &recordingSMS{}
	router := newTestRouter(sms)
	ctx := context.Background()
	phone := "+254700111222"

	// Each intermediate screen continues the session
	for _, path := range []string{"1", "1*1", "1*1*1"} {
		reply := router.Handle(ctx, path, phone)
		if reply.End {
			t.Errorf("path %q should continue, got END: %q", path, reply.Text)
		}
	}
	if len(sms.sent) != 0 {
		t.Fatalf("no SMS expected before finalization, got %d", len(sms.sent))
	}

	reply := router.Handle(ctx, "1*1*1*1", phone)
	if !reply.End {
		t.Error("finalized booking should terminate the session")
	}
	if !strings.Contains(reply.Text, "BOOKING SUCCESSFUL") {
		t.Errorf("expected BOOKING SUCCESSFUL, got %q", reply.Text)
	}
	if !strings.HasPrefix(reply.Render(), "END ") {
		t.Errorf("expected END prefix, got %q", reply.Render())
	}
	if len(sms.sent) != 1 {
		t.Fatalf("expected exactly one SMS dispatch, got %d", len(sms.sent))
	}
	if sms.sent[0].to != phone {
		t.Errorf("confirmation SMS went to %q, want %q", sms.sent[0].to, phone)
	}
}

func TestUSSD_EmergencyDispatchesAlert(t *testing.T) {
	sms := &recordingSMS{}
	router := newTestRouter(sms)
	ctx := context.Background()

	reply := router.Handle(ctx, "2", "+254700111222")
	if reply.End {
		t.Error("emergency prompt should continue the session")
	}

	reply = router.Handle(ctx, "2*Westlands stage", "+254700111222")
	if !reply.End {
		t.Error("emergency with location should terminate")
	}
	if len(sms.sent) != 1 {
		t.Fatalf("expected one alert SMS, got %d", len(sms.sent))
	}
	if sms.sent[0].to != router.EmergencyPhone {
		t.Errorf("alert went to %q, want ops line %q", sms.sent[0].to, router.EmergencyPhone)
	}
	if !strings.Contains(sms.sent[0].body, "Westlands stage") {
		t.Errorf("alert should carry the location, got %q", sms.sent[0].body)
	}
}

func TestUSSD_InvalidAndOverdeepInput(t *testing.T) {
	router := newTestRouter(&recordingSMS{})
	ctx := context.Background()

	cases := []string{"9", "1*7", "1*1*9", "1*1*1*9", "1*1*1*1*1", "3*1*1"}
	for _, path := range cases {
		reply := router.Handle(ctx, path, "+254700111222")
		if !reply.End {
			t.Errorf("path %q should terminate, got CON: %q", path, reply.Text)
		}
	}
}

func TestUSSD_SMSFailureDoesNotChangeReply(t *testing.T) {
	sms := &recordingSMS{err: errors.New("gateway down")}
	router := newTestRouter(sms)

	reply := router.Handle(context.Background(), "1*1*1*1", "+254700111222")
	if !reply.End || !strings.Contains(reply.Text, "BOOKING SUCCESSFUL") {
		t.Errorf("SMS failure must not change the reply, got %q", reply.Text)
	}
}

func TestUSSD_AccountBranch(t *testing.T) {
	router := newTestRouter(&recordingSMS{})
	ctx := context.Background()

	if reply := router.Handle(ctx, "3", "+254700111222"); reply.End {
		t.Error("account menu should continue")
	}
	reply := router.Handle(ctx, "3*2", "+254700111222")
	if !reply.End || !strings.Contains(reply.Text, router.HelplinePhone) {
		t.Errorf("helpline reply should terminate with the number, got %q", reply.Text)
	}
}
