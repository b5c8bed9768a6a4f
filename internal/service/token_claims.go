package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry lee el claim exp de un bearer token JWT sin verificar la firma;
// la verificacion es trabajo de la API. Tokens opacos o sin exp devuelven
// false: sesion sin expiracion declarada.
func TokenExpiry(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ResolveExpiry elige la expiracion de un login: la declarada por la API,
// si no el exp del token, si no ahora + fallback.
func ResolveExpiry(token string, declared *time.Time, now time.Time, fallback time.Duration) time.Time {
	if declared != nil && !declared.IsZero() {
		return *declared
	}
	if exp, ok := TokenExpiry(token); ok {
		return exp
	}
	if fallback <= 0 {
		fallback = DefaultSessionTTL
	}
	return now.Add(fallback)
}
