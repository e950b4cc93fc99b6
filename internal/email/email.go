// Package email sends transactional mail through Resend.
package email

import (
	"context"
	"fmt"
	"html"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// WelcomeSender emails a new waitlist member their referral link.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, toEmail, referralCode string) error
}

type resendSender struct {
	client    *resend.Client
	fromEmail string // "Name <addr>" or a bare address on a verified domain
	appURL    string
}

func NewResendSender(apiKey, fromEmail, appURL string) WelcomeSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

func (s *resendSender) SendWelcome(ctx context.Context, toEmail, referralCode string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{toEmail},
		Subject: "You're on the FarmCash waitlist",
		Html:    WelcomeHTML(ReferralLink(s.appURL, referralCode), referralCode),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

// ReferralLink is the landing URL that pre-fills code as the referrer.
func ReferralLink(appURL, code string) string {
	return appURL + "/?ref=" + url.QueryEscape(code)
}

func WelcomeHTML(link, code string) string {
	link = html.EscapeString(link)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f4f9f1;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="color:#2f6b2f;font-size:24px;margin:0 0 8px 0;">FarmCash</h1>
              <h2 style="color:#1f2d1f;font-size:18px;margin:0 0 24px 0;">Welcome to the waitlist</h2>
              <p style="color:#4a5a4a;font-size:15px;line-height:1.6;margin:0 0 16px 0;">
                Confirm your email to collect your signup seeds. Every friend who joins with your code earns you more.
              </p>
              <p style="color:#1f2d1f;font-size:20px;font-weight:700;letter-spacing:4px;margin:0 0 24px 0;">%s</p>
              <p style="color:#4a5a4a;font-size:13px;line-height:1.6;margin:0;word-break:break-all;">
                Share this link:<br>
                <a href="%s" style="color:#2f6b2f;">%s</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, html.EscapeString(code), link, link)
}
