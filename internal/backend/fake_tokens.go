package backend

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"docflow/internal/domain"
)

var (
	errFakeTokenInvalid = errors.New("fake token invalid")
	errFakeTokenExpired = errors.New("fake token expired")
)

const fakeIssuer = "docflow-fake"

type fakeClaims struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"rol,omitempty"`
	jwt.RegisteredClaims
}

// fakeTokenIssuer firma los bearer tokens que entrega el upstream en memoria.
type fakeTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newFakeTokenIssuer(secret string, ttl time.Duration) *fakeTokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if secret == "" {
		secret = "docflow-fake-secret"
	}
	return &fakeTokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *fakeTokenIssuer) sign(user domain.User) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := fakeClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    fakeIssuer,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	return signed, exp, err
}

func (s *fakeTokenIssuer) parse(tokenString string) (fakeClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return fakeClaims{}, errFakeTokenInvalid
	}
	var claims fakeClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(fakeIssuer),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fakeClaims{}, errFakeTokenExpired
		}
		return fakeClaims{}, errFakeTokenInvalid
	}
	if claims.Subject != strconv.Itoa(claims.UserID) {
		return fakeClaims{}, errFakeTokenInvalid
	}
	return claims, nil
}
