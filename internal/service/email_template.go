package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"go_corporate_auth/internal/model"
)

// emailMessage は送信するメールの件名と本文
type emailMessage struct {
	Subject string
	HTML    string
	Text    string
}

type emailTemplateData struct {
	UserName    string
	CompanyName string
	Link        string
	ExpiresIn   string
	AppName     string
}

var magicLinkHTMLTemplate = template.Must(template.New("magic_link").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Hello {{.UserName}},</p>
  <p>{{.Intro}}</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:10px 18px;background:#1a56db;color:#fff;text-decoration:none;border-radius:4px;">{{.Action}}</a></p>
  <p>Or paste this URL into your browser:<br>{{.Link}}</p>
  <p>This link can be used once and expires in {{.ExpiresIn}}.</p>
  <p>If you did not request this, you can ignore this email.</p>
  <p>{{.AppName}}{{if .CompanyName}} for {{.CompanyName}}{{end}}</p>
</body>
</html>
`))

// renderTokenEmail は purpose に応じたメールを組み立てる。有効期限の表記は実際の TTL から作る。
func renderTokenEmail(purpose model.TokenPurpose, data emailTemplateData) (*emailMessage, error) {
	subject := "Your sign-in link"
	intro := "Use the button below to sign in to the corporate portal."
	action := "Sign in"
	if purpose == model.PurposePasswordReset {
		subject = "Reset your password"
		intro = "We received a request to reset your corporate portal password. Use the button below to choose a new one."
		action = "Reset password"
	}

	var htmlBuf bytes.Buffer
	err := magicLinkHTMLTemplate.Execute(&htmlBuf, struct {
		emailTemplateData
		Intro  string
		Action string
	}{data, intro, action})
	if err != nil {
		return nil, fmt.Errorf("renderTokenEmail: %w", err)
	}

	text := fmt.Sprintf("Hello %s,\n\n%s\n\n%s\n\nThis link can be used once and expires in %s.\nIf you did not request this, you can ignore this email.\n",
		data.UserName, intro, data.Link, data.ExpiresIn)

	return &emailMessage{Subject: subject, HTML: htmlBuf.String(), Text: text}, nil
}

// humanizeTTL は 5*24h -> "5 days" のように表記する
func humanizeTTL(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return plural(int64(d/(24*time.Hour)), "day")
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	default:
		return plural(int64((d+time.Minute-1)/time.Minute), "minute")
	}
}
