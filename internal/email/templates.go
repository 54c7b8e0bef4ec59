package email

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"linkhub/internal/config"
	"linkhub/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

func (t *Templates) siteName() string {
	if t.cfg.SMTPFromName != "" {
		return t.cfg.SMTPFromName
	}
	return "LinkHub"
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        pre { white-space: pre-wrap; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">
        %s
    </div>
    <p><a href="%s">%s</a></p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.siteName()), content, t.cfg.BaseURL, t.cfg.BaseURL)
}

// ContactRequestReceived generates the support notice for a new contact request.
func (t *Templates) ContactRequestReceived(req *models.ContactRequest, from *models.PublicUser) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] New %s request: %s", t.siteName(), req.RequestType, req.Subject)

	content := fmt.Sprintf(`
        <p>A user submitted a contact request.</p>

        <div class="info-box">
            <p><span class="label">Type:</span> %s</p>
            <p><span class="label">From:</span> %s (%s)</p>
            <p><span class="label">Reply to:</span> %s</p>
            <p><span class="label">Subject:</span> %s</p>
            <pre>%s</pre>
        </div>`,
		html.EscapeString(req.RequestType),
		html.EscapeString(from.Username),
		html.EscapeString(from.Email),
		html.EscapeString(req.UserEmail),
		html.EscapeString(req.Subject),
		html.EscapeString(req.Message),
	)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`A user submitted a contact request.

Type: %s
From: %s (%s)
Reply to: %s
Subject: %s

%s
`, req.RequestType, from.Username, from.Email, req.UserEmail, req.Subject, req.Message)

	return subject, htmlBody, textBody
}

// RemovalRequestReceived generates the support notice for a new data removal request.
func (t *Templates) RemovalRequestReceived(req *models.RemovalRequest, from *models.PublicUser) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Data removal request (%s) from %s", t.siteName(), req.RemovalType, from.Username)

	links := "n/a"
	if len(req.SpecificLinks) > 0 {
		ids := make([]string, len(req.SpecificLinks))
		for i, id := range req.SpecificLinks {
			ids[i] = strconv.FormatInt(id, 10)
		}
		links = strings.Join(ids, ", ")
	}

	reason := req.Reason
	if reason == "" {
		reason = "(none given)"
	}

	content := fmt.Sprintf(`
        <p>A user asked for their data to be removed.</p>

        <div class="info-box">
            <p><span class="label">User:</span> %s (%s)</p>
            <p><span class="label">Removal type:</span> %s</p>
            <p><span class="label">Links:</span> %s</p>
            <p><span class="label">Reason:</span> %s</p>
        </div>`,
		html.EscapeString(from.Username),
		html.EscapeString(from.Email),
		html.EscapeString(req.RemovalType),
		links,
		html.EscapeString(reason),
	)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`A user asked for their data to be removed.

User: %s (%s)
Removal type: %s
Links: %s
Reason: %s
`, from.Username, from.Email, req.RemovalType, links, reason)

	return subject, htmlBody, textBody
}
