// Package fingerprint derives a coarse visitor fingerprint used for
// approximate duplicate detection of waitlist signups.
package fingerprint

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
)

// Environment exposes the visitor attributes the collector reads.
type Environment interface {
	UserAgent() string
	Timezone() string
}

// IPLookup resolves the visitor's public IP.
type IPLookup interface {
	LookupIP(ctx context.Context) (string, error)
}

// StaticEnvironment is an Environment with fixed values.
type StaticEnvironment struct {
	UA string
	TZ string
}

func (e StaticEnvironment) UserAgent() string { return e.UA }
func (e StaticEnvironment) Timezone() string  { return e.TZ }

// RequestEnvironment reads the environment from an inbound request. The
// browser reports its IANA timezone in X-Timezone; fallbackTZ is used when the
// header is absent (usually the timezone field of the form body).
type RequestEnvironment struct {
	Request    *http.Request
	FallbackTZ string
}

func (e RequestEnvironment) UserAgent() string {
	return e.Request.UserAgent()
}

func (e RequestEnvironment) Timezone() string {
	if tz := strings.TrimSpace(e.Request.Header.Get("X-Timezone")); tz != "" {
		return tz
	}
	return e.FallbackTZ
}

// StaticIP is an IPLookup that already knows the answer, e.g. the client IP
// of the current request.
type StaticIP string

func (s StaticIP) LookupIP(context.Context) (string, error) { return string(s), nil }

type Collector struct {
	ips IPLookup
	log *slog.Logger
}

func NewCollector(ips IPLookup) *Collector {
	return &Collector{ips: ips, log: logger.Component("fingerprint")}
}

// Collect never fails: an IP lookup error leaves IP empty.
func (c *Collector) Collect(ctx context.Context, env Environment) domain.Fingerprint {
	ua := env.UserAgent()
	fp := domain.Fingerprint{
		Timezone:   env.Timezone(),
		Browser:    Browser(ua),
		OS:         OS(ua),
		DeviceType: DeviceType(ua),
	}

	if c.ips != nil {
		ip, err := c.ips.LookupIP(ctx)
		if err != nil {
			c.log.Warn("could not fetch IP", "error", err)
		} else {
			fp.IP = ip
		}
	}

	fp.Hash = Hash(hashInput(fp))
	return fp
}

// hashInput joins ip-timezone-browser-os. A missing IP is written as "null"
// so hashes stay comparable with rows recorded by the browser client.
func hashInput(fp domain.Fingerprint) string {
	ip := fp.IP
	if ip == "" {
		ip = "null"
	}
	return ip + "-" + fp.Timezone + "-" + fp.Browser + "-" + fp.OS
}
