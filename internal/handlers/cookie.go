package handlers

import (
	"net/http"
	"time"
)

const RefreshCookieName = "refresh_token"

// CreateCookie builds the refresh-token cookie. SameSite drops to None
// outside production so local frontends on another origin can log in.
func CreateCookie(name, value, path string, exp time.Time, production bool) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if !production {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: sameSite,
	}
}

func DeleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	}
}
