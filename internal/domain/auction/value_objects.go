package auction

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidAuctionWindow = errors.New("end date must be after start date")

// AuctionWindow is the [start, end) interval during which bids are accepted.
type AuctionWindow struct {
	start time.Time
	end   time.Time
}

func NewAuctionWindow(start, end time.Time) (AuctionWindow, error) {
	if !end.After(start) {
		return AuctionWindow{}, ErrInvalidAuctionWindow
	}
	return AuctionWindow{start: start.UTC(), end: end.UTC()}, nil
}

func (w AuctionWindow) Start() time.Time {
	return w.start
}

func (w AuctionWindow) End() time.Time {
	return w.end
}

// Whitelist restricts bidder email domains. Empty means unrestricted.
type Whitelist struct {
	domains []string
}

// ParseWhitelist accepts the admin-entered comma-separated form
// ("example.com, example.org") and normalizes entries to lowercase.
func ParseWhitelist(raw string) Whitelist {
	parts := strings.Split(raw, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		d := strings.ToLower(strings.TrimSpace(p))
		if d != "" {
			domains = append(domains, d)
		}
	}
	return Whitelist{domains: domains}
}

func NewWhitelist(domains []string) Whitelist {
	return ParseWhitelist(strings.Join(domains, ","))
}

func (w Whitelist) IsEmpty() bool {
	return len(w.domains) == 0
}

func (w Whitelist) Domains() []string {
	return w.domains
}

// Allows matches the substring after the final "@", case-insensitively.
// An empty whitelist allows every domain.
func (w Whitelist) Allows(email string) bool {
	if w.IsEmpty() {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range w.domains {
		if d == domain {
			return true
		}
	}
	return false
}

func (w Whitelist) String() string {
	return strings.Join(w.domains, ", ")
}
