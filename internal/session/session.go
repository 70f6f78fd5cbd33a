package session

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "ADMIN"

var ErrNoSession = errors.New("no session")

// Session is the typed form of the locally persisted token blob: the bearer
// credential issued by the bookstore API plus the role embedded in it.
type Session struct {
	JWT  string `json:"jwt"`
	Role string `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Decode parses a stored token blob. The current shape is a JSON object
// {jwt, role}; earlier revisions stored the bare JWT string, which is
// normalized here so consumers only ever see the typed record.
func Decode(raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, ErrNoSession
	}

	if strings.HasPrefix(raw, "{") {
		var s Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return Session{}, err
		}
		if s.JWT == "" {
			return Session{}, ErrNoSession
		}
		if s.Role == "" {
			s.Role = roleFromJWT(s.JWT)
		}
		return s, nil
	}

	// legacy shape: bare JWT string
	return Session{JWT: raw, Role: roleFromJWT(raw)}, nil
}

// Encode renders the session in the current storage shape.
func (s Session) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// roleFromJWT reads the role claim without verifying the signature. The
// storefront is not the token issuer; role gating here is advisory only,
// the authority lives server-side.
func roleFromJWT(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
