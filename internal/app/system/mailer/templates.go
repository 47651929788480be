// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ApprovalEmailData holds data for the approval decision emails sent to an
// organization's contact address.
type ApprovalEmailData struct {
	SiteName string
	OrgName  string
	LoginURL string
}

// BuildApprovalEmail creates the "membership approved" email with both HTML
// and text bodies. The caller sets To.
func BuildApprovalEmail(data ApprovalEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Your %s membership has been approved", data.SiteName),
		TextBody: buildApprovalText(data),
		HTMLBody: buildDecisionHTML("approved", data),
	}
}

// BuildRejectionEmail creates the "membership not approved" email.
func BuildRejectionEmail(data ApprovalEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Your %s membership application", data.SiteName),
		TextBody: buildRejectionText(data),
		HTMLBody: buildDecisionHTML("rejected", data),
	}
}

func buildApprovalText(data ApprovalEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Good news! The membership application for %s has been approved.\n\n", data.OrgName))
	buf.WriteString("You can now sign in to your account:\n")
	buf.WriteString(data.LoginURL + "\n\n")
	buf.WriteString(fmt.Sprintf("Welcome to %s.\n", data.SiteName))
	return buf.String()
}

func buildRejectionText(data ApprovalEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Thank you for your interest in %s.\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("Unfortunately the membership application for %s was not approved at this time.\n\n", data.OrgName))
	buf.WriteString("If you believe this is a mistake, please reply to this email.\n")
	return buf.String()
}

// RegistrationEmailData holds data for event registration confirmations.
type RegistrationEmailData struct {
	SiteName   string
	EventTitle string
	EventDate  string
	Name       string
}

// BuildRegistrationEmail creates the event registration confirmation email.
func BuildRegistrationEmail(data RegistrationEmailData) Email {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", data.Name))
	buf.WriteString(fmt.Sprintf("You are registered for %s on %s.\n\n", data.EventTitle, data.EventDate))
	buf.WriteString(fmt.Sprintf("See you there!\n%s\n", data.SiteName))

	return Email{
		Subject:  fmt.Sprintf("Registration confirmed: %s", data.EventTitle),
		TextBody: buf.String(),
		HTMLBody: buildRegistrationHTML(data),
	}
}

func buildDecisionHTML(decision string, data ApprovalEmailData) string {
	tmpl := template.Must(template.New("decision").Parse(decisionHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, struct {
		ApprovalEmailData
		Approved bool
	}{data, decision == "approved"})
	return buf.String()
}

func buildRegistrationHTML(data RegistrationEmailData) string {
	tmpl := template.Must(template.New("registration").Parse(registrationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const decisionHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Membership Application</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <tr>
            <td style="padding: 32px;">
              {{if .Approved}}
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Good news! The membership application for <strong>{{.OrgName}}</strong> has been approved.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.LoginURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Sign In
                    </a>
                  </td>
                </tr>
              </table>
              {{else}}
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Thank you for your interest in {{.SiteName}}. Unfortunately the membership application for <strong>{{.OrgName}}</strong> was not approved at this time.
              </p>
              <p style="margin: 0; font-size: 14px; color: #6b7280;">
                If you believe this is a mistake, please reply to this email.
              </p>
              {{end}}
            </td>
          </tr>

          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                This is an automated message from {{.SiteName}}.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const registrationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Registration Confirmed</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151; line-height: 1.5;">
                Hi {{.Name}},
              </p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                You are registered for <strong>{{.EventTitle}}</strong> on {{.EventDate}}.
              </p>
              <p style="margin: 0; font-size: 14px; color: #6b7280;">
                See you there!
              </p>
            </td>
          </tr>

          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                This is an automated message from {{.SiteName}}.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
