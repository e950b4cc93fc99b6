package email

import (
	"strings"
	"testing"
)

func TestReferralLink(t *testing.T) {
	if got := ReferralLink("https://farmcash.app", "AB23XY"); got != "https://farmcash.app/?ref=AB23XY" {
		t.Fatalf("link = %q", got)
	}
}

func TestWelcomeHTML(t *testing.T) {
	body := WelcomeHTML("https://farmcash.app/?ref=AB23XY&x=1", "AB23XY")
	if !strings.Contains(body, "AB23XY") {
		t.Fatalf("code missing from body")
	}
	if !strings.Contains(body, "https://farmcash.app/?ref=AB23XY&amp;x=1") {
		t.Fatalf("link not escaped")
	}
	if strings.Contains(body, "%!") {
		t.Fatalf("format verbs left in body")
	}
}
