package fingerprint

import (
	"regexp"
	"strings"
)

var (
	iosRe    = regexp.MustCompile(`iPad|iPhone|iPod`)
	mobileRe = regexp.MustCompile(`(?i)Mobile|Android|iPhone`)
	tabletRe = regexp.MustCompile(`(?i)iPad|Tablet`)
)

// Browser classifies a user agent. Order matters: Edge and Chrome both carry
// "Chrome", and Chrome carries "Safari".
func Browser(ua string) string {
	switch {
	case strings.Contains(ua, "Edg"):
		return "Edge"
	case strings.Contains(ua, "Chrome"):
		return "Chrome"
	case strings.Contains(ua, "Firefox"):
		return "Firefox"
	case strings.Contains(ua, "Safari"):
		return "Safari"
	default:
		return "Other"
	}
}

// OS classifies a user agent. iOS agents say "like Mac OS X" and therefore
// classify as Mac; existing rows were written that way.
func OS(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Mac"):
		return "Mac"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	case strings.Contains(ua, "Android"):
		return "Android"
	case iosRe.MatchString(ua):
		return "iOS"
	default:
		return "Other"
	}
}

// DeviceType returns mobile, tablet or desktop.
func DeviceType(ua string) string {
	switch {
	case mobileRe.MatchString(ua):
		return "mobile"
	case tabletRe.MatchString(ua):
		return "tablet"
	default:
		return "desktop"
	}
}
