// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/htmlsanitize"
)

// NudgeEmailData holds data for the nudge email templates.
type NudgeEmailData struct {
	SiteName string
	Name     string
	Message  string
}

// BuildNudgeEmail creates a nudge email with both HTML and text bodies.
func BuildNudgeEmail(data NudgeEmailData) Email {
	if data.Name == "" {
		data.Name = "there"
	}
	return Email{
		To:       "", // set by caller
		Subject:  fmt.Sprintf("A nudge from %s", data.SiteName),
		TextBody: buildNudgeText(data),
		HTMLBody: buildNudgeHTML(data),
	}
}

func buildNudgeText(data NudgeEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.Name)
	buf.WriteString(data.Message + "\n\n")
	fmt.Fprintf(&buf, "Log today's workout in %s to keep your streak going.\n", data.SiteName)
	return buf.String()
}

var nudgeHTML = template.Must(template.New("nudge").Parse(nudgeHTMLTemplate))

func buildNudgeHTML(data NudgeEmailData) string {
	var buf bytes.Buffer
	_ = nudgeHTML.Execute(&buf, struct {
		NudgeEmailData
		Body template.HTML
	}{data, htmlsanitize.PrepareForDisplay(data.Message)})
	return buf.String()
}

const nudgeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteName}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 16px; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #059669;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px; font-size: 16px; color: #374151; line-height: 1.5;">
              <p style="margin: 0 0 16px;">Hi {{.Name}},</p>
              <div style="margin: 0 0 24px;">{{.Body}}</div>
              <p style="margin: 0; font-size: 14px; color: #6b7280;">Log today's workout to keep your streak going.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`
