// Package adminsession mints and validates the HS256 JWTs that gate DDL
// statements: CREATE/DROP/ALTER require a valid admin session, DML and
// SELECT do not (spec §5's operational model treats schema changes as the
// sensitive path, everything else as routine traffic).
package adminsession

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// Identity is the admin principal recovered from a validated token.
type Identity struct {
	Subject string
	Issuer  string
}

// Config configures the session verifier/minter. Secret is the shared
// HS256 signing key; it is required both for Verify to accept tokens and
// for Mint to be usable at all. Issuer is optional.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Manager mints and validates admin session tokens.
type Manager struct {
	cfg Config
}

func NewManager(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Manager{cfg: cfg}
}

// Mint issues a new HS256 token identifying subject, expiring after the
// manager's configured TTL.
func (m *Manager) Mint(subject string) (string, error) {
	if m.cfg.Secret == "" {
		return "", golemerrors.OperationalError(nil, "admin session signing secret is not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(m.cfg.TTL).Unix(),
	}
	if m.cfg.Issuer != "" {
		claims["iss"] = m.cfg.Issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", golemerrors.OperationalError(err, "signing admin session token")
	}
	return signed, nil
}

// Verify checks a bearer token's signature, expiry, and issuer (if
// configured), returning the identity it carries.
func (m *Manager) Verify(tokenString string) (Identity, error) {
	if m.cfg.Secret == "" {
		return Identity{}, golemerrors.OperationalError(nil, "admin session signing secret is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, golemerrors.InterfaceError("invalid admin session token: %v", err)
	}
	if !token.Valid {
		return Identity{}, golemerrors.InterfaceError("invalid admin session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, golemerrors.InterfaceError("invalid admin session token claims")
	}

	if m.cfg.Issuer != "" {
		issuer, _ := claims.GetIssuer()
		if issuer != m.cfg.Issuer {
			return Identity{}, golemerrors.InterfaceError("invalid admin session issuer %q", issuer)
		}
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Identity{}, golemerrors.InterfaceError("admin session token missing subject claim")
	}

	return Identity{Subject: subject, Issuer: m.cfg.Issuer}, nil
}

// RequireDDL gates a DDL statement, returning an InterfaceError if no
// valid session token was presented. token may be empty, in which case
// this always fails; adapter connections that never configure an admin
// secret should not call this at all (DDL then runs unauthenticated,
// matching a single-tenant local development connection).
func (m *Manager) RequireDDL(token string) (Identity, error) {
	if token == "" {
		return Identity{}, golemerrors.InterfaceError("admin session required for DDL statements")
	}
	return m.Verify(token)
}
