package httputil

import (
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// FlashCookieName carries a one-shot message across a redirect.
	FlashCookieName = "flash"

	flashTTL = time.Minute
)

// Flasher signs flash messages so clients cannot forge them.
type Flasher struct {
	secret []byte
	secure bool
}

func NewFlasher(secret string, secure bool) *Flasher {
	return &Flasher{secret: []byte(secret), secure: secure}
}

// Set stores message for the next request.
func (f *Flasher) Set(w http.ResponseWriter, message string) error {
	claims := jwt.MapClaims{
		"msg": message,
		"exp": time.Now().Add(flashTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending message, if any, and clears it. Tampered or
// expired cookies read as empty.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		return f.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	msg, _ := claims["msg"].(string)
	return msg
}

// Redirect sets message and redirects with 303.
func (f *Flasher) Redirect(w http.ResponseWriter, r *http.Request, location, message string) {
	if err := f.Set(w, message); err != nil {
		log.Printf("[HTTP] set flash failed: %v", err)
	}
	SeeOther(w, r, location)
}
