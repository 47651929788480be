package mailer_test

import (
	"strings"
	"testing"

	"github.com/memberhub/memberhub/internal/app/system/mailer"
)

func TestBuildApprovalEmail(t *testing.T) {
	email := mailer.BuildApprovalEmail(mailer.ApprovalEmailData{
		SiteName: "MemberHub",
		OrgName:  "Acme Robotics",
		LoginURL: "https://example.com/login",
	})

	if !strings.Contains(email.Subject, "approved") {
		t.Errorf("subject should mention approval, got %q", email.Subject)
	}
	if !strings.Contains(email.TextBody, "Acme Robotics") {
		t.Error("text body should contain the org name")
	}
	if !strings.Contains(email.HTMLBody, "https://example.com/login") {
		t.Error("html body should contain the login url")
	}
	if email.To != "" {
		t.Error("To should be left for the caller to set")
	}
}

func TestBuildRejectionEmail(t *testing.T) {
	email := mailer.BuildRejectionEmail(mailer.ApprovalEmailData{
		SiteName: "MemberHub",
		OrgName:  "Acme Robotics",
	})

	if !strings.Contains(email.TextBody, "not approved") {
		t.Errorf("text body should state the decision, got %q", email.TextBody)
	}
	if strings.Contains(email.HTMLBody, "Sign In") {
		t.Error("rejection email should not contain a sign-in button")
	}
}

func TestBuildRegistrationEmail(t *testing.T) {
	email := mailer.BuildRegistrationEmail(mailer.RegistrationEmailData{
		SiteName:   "MemberHub",
		EventTitle: "Annual Meetup",
		EventDate:  "March 5, 2026",
		Name:       "Jordan",
	})

	if !strings.Contains(email.Subject, "Annual Meetup") {
		t.Errorf("subject should contain event title, got %q", email.Subject)
	}
	if !strings.Contains(email.TextBody, "Jordan") {
		t.Error("text body should greet the registrant")
	}
	if !strings.Contains(email.HTMLBody, "March 5, 2026") {
		t.Error("html body should contain the event date")
	}
}

func TestBuildApprovalEmail_EscapesHTML(t *testing.T) {
	email := mailer.BuildApprovalEmail(mailer.ApprovalEmailData{
		SiteName: "MemberHub",
		OrgName:  `<script>alert("x")</script>`,
	})

	if strings.Contains(email.HTMLBody, "<script>") {
		t.Error("org name must be escaped in html body")
	}
}

func TestMailer_NilSendIsNoOp(t *testing.T) {
	var m *mailer.Mailer
	err := m.Send(mailer.Email{To: "someone@example.com", Subject: "hi", TextBody: "hi"})
	if err != nil {
		t.Errorf("nil mailer Send should be a no-op, got %v", err)
	}
}

func TestNew_NoHostDisablesMail(t *testing.T) {
	m := mailer.New(mailer.Config{}, nil)
	if m != nil {
		t.Error("expected nil mailer when no host is configured")
	}
}
