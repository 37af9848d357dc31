package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// InviteService mints and verifies raid invite tokens. Tokens are bound to
// one session and one action so a spectate invite cannot be replayed as a
// join.
type InviteService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const (
	InviteActionJoin     = "join"
	InviteActionSpectate = "spectate"
)

// InviteClaims is the verified content of an invite token.
type InviteClaims struct {
	PlayerID  string
	SessionID string
	Action    string
}

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &InviteService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

// GenerateToken mints an invite for one player into one session.
func (s *InviteService) GenerateToken(playerID, sessionID, action string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if playerID == "" {
		return "", fmt.Errorf("player id is required")
	}
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}
	if action != InviteActionJoin && action != InviteActionSpectate {
		return "", fmt.Errorf("unsupported invite action: %s", action)
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": playerID,
		"exp": time.Now().Add(s.ttl).Unix(),
		"act": action,
		"sid": sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken validates the signature, expiry and issuer, returning the
// invite's claims.
func (s *InviteService) VerifyToken(tokenString string) (InviteClaims, error) {
	if s == nil || s.secret == "" {
		return InviteClaims{}, fmt.Errorf("invite config is incomplete")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return InviteClaims{}, err
	}
	if !token.Valid {
		return InviteClaims{}, fmt.Errorf("invite token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return InviteClaims{}, fmt.Errorf("invite claims are malformed")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return InviteClaims{}, fmt.Errorf("invite issuer mismatch")
	}

	out := InviteClaims{}
	if out.PlayerID, ok = claims["sub"].(string); !ok || out.PlayerID == "" {
		return InviteClaims{}, fmt.Errorf("invite is missing a player id")
	}
	if out.SessionID, ok = claims["sid"].(string); !ok || out.SessionID == "" {
		return InviteClaims{}, fmt.Errorf("invite is missing a session id")
	}
	if out.Action, ok = claims["act"].(string); !ok {
		return InviteClaims{}, fmt.Errorf("invite is missing an action")
	}
	if out.Action != InviteActionJoin && out.Action != InviteActionSpectate {
		return InviteClaims{}, fmt.Errorf("unsupported invite action: %s", out.Action)
	}
	return out, nil
}
