package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// USSDReply is one screen of a USSD session. End distinguishes a terminating
// reply from one that expects further input; the telephony gateway reads the
// distinction from the rendered "CON "/"END " prefix.
type USSDReply struct {
	Text string
	End  bool
}

// Render produces the wire format the telephony gateway expects.
func (r USSDReply) Render() string {
	if r.End {
		return "END " + r.Text
	}
	return "CON " + r.Text
}

// Menu labels keyed by the digit the caller dials at each level of the
// booking branch.
var (
	ussdConcerns = map[string]string{
		"1": "Depression",
		"2": "Anxiety",
		"3": "Addiction",
		"4": "Trauma",
	}
	ussdSlots = map[string]string{
		"1": "Today 2:00 PM",
		"2": "Tomorrow 10:00 AM",
		"3": "Tomorrow 4:00 PM",
	}
	ussdBranches = map[string]string{
		"1": "Chiromo Lane, Nairobi",
		"2": "Braeside, Westlands",
		"3": "Nyali, Mombasa",
	}
)

// USSDRouter replays the session path through the menu tree on every
// request; there is no server-side session object. SMS is injected so the
// router stays testable without a live gateway.
type USSDRouter struct {
	SMS            SMSSender
	EmergencyPhone string // ops line that receives emergency alerts
	HelplinePhone  string // shown to callers asking for the helpline
}

// Handle resolves one USSD callback. path is the accumulated *-delimited
// digit string ("" on the first hit), phone is the caller's number.
func (u *USSDRouter) Handle(ctx context.Context, path, phone string) USSDReply {
	steps := parseUSSDPath(path)

	if len(steps) == 0 {
		return USSDReply{Text: "Welcome to Chiromo Mental Health Service.\n1. Book Therapy Session\n2. Emergency Help\n3. My Account"}
	}

	switch steps[0] {
	case "1":
		return u.handleBooking(ctx, steps, phone)
	case "2":
		return u.handleEmergency(ctx, steps, phone)
	case "3":
		return u.handleAccount(steps)
	default:
		return USSDReply{End: true, Text: "Invalid option. Please dial again."}
	}
}

func (u *USSDRouter) handleBooking(ctx context.Context, steps []string, phone string) USSDReply {
	switch len(steps) {
	case 1:
		return USSDReply{Text: "What would you like help with?\n1. Depression\n2. Anxiety\n3. Addiction\n4. Trauma"}
	case 2:
		if _, ok := ussdConcerns[steps[1]]; !ok {
			return USSDReply{End: true, Text: "Invalid choice. Please dial again."}
		}
		return USSDReply{Text: "Choose a time slot:\n1. Today 2:00 PM\n2. Tomorrow 10:00 AM\n3. Tomorrow 4:00 PM"}
	case 3:
		if _, ok := ussdSlots[steps[2]]; !ok {
			return USSDReply{End: true, Text: "Invalid choice. Please dial again."}
		}
		return USSDReply{Text: "Choose a branch:\n1. Chiromo Lane, Nairobi\n2. Braeside, Westlands\n3. Nyali, Mombasa"}
	case 4:
		concern, okConcern := ussdConcerns[steps[1]]
		slot, okSlot := ussdSlots[steps[2]]
		branch, okBranch := ussdBranches[steps[3]]
		if !okConcern || !okSlot || !okBranch {
			return USSDReply{End: true, Text: "Invalid choice. Please dial again."}
		}

		u.dispatchSMS(ctx, phone, fmt.Sprintf(
			"Chiromo MHS: your %s session is booked for %s at %s. Recovery in Dignity.",
			concern, slot, branch))

		return USSDReply{End: true, Text: fmt.Sprintf(
			"BOOKING SUCCESSFUL\n%s session on %s at %s.\nA confirmation SMS has been sent to you.",
			concern, slot, branch)}
	default:
		return USSDReply{End: true, Text: "Session timed out. Please dial again."}
	}
}

func (u *USSDRouter) handleEmergency(ctx context.Context, steps []string, phone string) USSDReply {
	switch len(steps) {
	case 1:
		return USSDReply{Text: "Emergency Help\nEnter your current location:"}
	case 2:
		location := strings.TrimSpace(steps[1])
		if location == "" {
			return USSDReply{End: true, Text: "Location missing. Please dial again."}
		}

		u.dispatchSMS(ctx, u.EmergencyPhone, fmt.Sprintf(
			"EMERGENCY ALERT: caller %s needs urgent help at: %s", phone, location))

		return USSDReply{End: true, Text: "Help is on the way. A crisis counselor will call you shortly. Stay where you are."}
	default:
		return USSDReply{End: true, Text: "Session timed out. Please dial again."}
	}
}

func (u *USSDRouter) handleAccount(steps []string) USSDReply {
	switch len(steps) {
	case 1:
		return USSDReply{Text: "My Account\n1. Premium status\n2. Helpline number"}
	case 2:
		switch steps[1] {
		case "1":
			return USSDReply{End: true, Text: "Log in to the Chiromo portal to view your premium status."}
		case "2":
			return USSDReply{End: true, Text: "Our 24/7 helpline: " + u.HelplinePhone}
		default:
			return USSDReply{End: true, Text: "Invalid choice. Please dial again."}
		}
	default:
		return USSDReply{End: true, Text: "Session timed out. Please dial again."}
	}
}

// dispatchSMS sends synchronously but best-effort: a gateway failure never
// changes the reply the caller sees.
func (u *USSDRouter) dispatchSMS(ctx context.Context, to, body string) {
	if u.SMS == nil || to == "" {
		return
	}
	if err := u.SMS.SendSMS(ctx, to, body); err != nil {
		log.Printf("ussd sms to %s failed: %v", to, err)
	}
}

// parseUSSDPath splits the accumulated session path into its dialed steps.
func parseUSSDPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, "*")
}
