package cookie

import (
	"net/http"
	"time"

	"zolta/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookieName = "access_token"

	// Bidder identity recall: pre-fills the bid form on return visits.
	BidderNameCookieName  = "bidder_name"
	BidderEmailCookieName = "bidder_email"

	// RememberedVerificationCookieName holds the signed proof that the bidder
	// already completed an email confirmation within the remember window.
	RememberedVerificationCookieName = "bid_verified"

	bidderCookieMaxAge = 30 * 24 * time.Hour
)

func SetAccessTokenCookie(c *gin.Context, cfg config.CookieConfig, token string, expiry time.Duration) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		AccessTokenCookieName,
		token,
		int(expiry.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

func ClearAccessTokenCookie(c *gin.Context, cfg config.CookieConfig) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		AccessTokenCookieName,
		"",
		-1,
		"/",
		cfg.Domain,
		cfg.Secure,
		true,
	)
}

func SetBidderIdentityCookies(c *gin.Context, cfg config.CookieConfig, name, email string) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	maxAge := int(bidderCookieMaxAge.Seconds())
	c.SetCookie(BidderNameCookieName, name, maxAge, "/", cfg.Domain, cfg.Secure, false)
	c.SetCookie(BidderEmailCookieName, email, maxAge, "/", cfg.Domain, cfg.Secure, false)
}

func SetRememberedVerificationCookie(c *gin.Context, cfg config.CookieConfig, token string, window time.Duration) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		RememberedVerificationCookieName,
		token,
		int(window.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true,
	)
}

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

func GetRememberedVerification(c *gin.Context) string {
	token, _ := c.Cookie(RememberedVerificationCookieName)
	return token
}

func GetBidderEmail(c *gin.Context) string {
	email, _ := c.Cookie(BidderEmailCookieName)
	return email
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
