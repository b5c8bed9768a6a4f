package http

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// cookieSessionStore guarda la sesion en cookies del navegador. Las
// escrituras se reflejan en las lecturas posteriores del mismo request.
type cookieSessionStore struct {
	c       *gin.Context
	secure  bool
	overlay map[string]*string
}

func newCookieSessionStore(c *gin.Context, secure bool) *cookieSessionStore {
	return &cookieSessionStore{
		c:       c,
		secure:  secure,
		overlay: make(map[string]*string),
	}
}

func (s *cookieSessionStore) Get(key string) (string, bool, error) {
	if val, ok := s.overlay[key]; ok {
		if val == nil {
			return "", false, nil
		}
		return *val, true, nil
	}
	val, err := s.c.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set emite todas las cookies en la misma respuesta con Max-Age=ttl y Path=/.
func (s *cookieSessionStore) Set(values map[string]string, ttl time.Duration) error {
	maxAge := 0
	if ttl > 0 {
		maxAge = int(ttl / time.Second)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.c.SetSameSite(http.SameSiteLaxMode)
	for _, k := range keys {
		v := values[k]
		s.c.SetCookie(k, v, maxAge, "/", "", s.secure, true)
		s.overlay[k] = &v
	}
	return nil
}

func (s *cookieSessionStore) Clear(keys ...string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	for _, k := range keys {
		s.c.SetCookie(k, "", -1, "/", "", s.secure, true)
		s.overlay[k] = nil
	}
	return nil
}
