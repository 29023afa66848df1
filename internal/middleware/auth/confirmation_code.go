package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	"yamdb/internal/http-api/models"
)

const (
	codeInfo      = "yamdb confirmation code"
	codeDigestLen = 32 // hex chars kept from the HMAC
)

// CodeGenerator issues single-use confirmation codes without storing them.
//
// A code is "<issued base36>-<digest>" where digest is
// hex(HMAC-SHA256(k, id|email|role|last_login_micros|issued_unix))[:32] and k is
// derived from the server secret with HKDF. Checking recomputes the digest, so
// a code stops working when it expires, when any hashed field changes, or when
// it is exchanged (the exchange stamps last_login).
type CodeGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator derives the HMAC key from secret.
func NewCodeGenerator(secret string, ttl time.Duration) (*CodeGenerator, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(codeInfo)), key); err != nil {
		return nil, fmt.Errorf("derive confirmation key: %w", err)
	}
	return &CodeGenerator{key: key, ttl: ttl, now: time.Now}, nil
}

// Make returns a fresh code for user.
func (g *CodeGenerator) Make(user *models.User) string {
	issued := g.now().Unix()
	return strconv.FormatInt(issued, 36) + "-" + g.digest(user, issued)
}

// Check reports whether code was issued for user's current state and has not expired.
func (g *CodeGenerator) Check(user *models.User, code string) bool {
	if user == nil || code == "" {
		return false
	}
	tsPart, digest, ok := strings.Cut(code, "-")
	if !ok || len(digest) != codeDigestLen {
		return false
	}
	issued, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}

	expected := g.digest(user, issued)
	if !hmac.Equal([]byte(expected), []byte(digest)) {
		return false
	}

	age := g.now().Sub(time.Unix(issued, 0))
	return age >= 0 && age <= g.ttl
}

func (g *CodeGenerator) digest(user *models.User, issued int64) string {
	var lastLogin int64
	if user.LastLogin != nil {
		// microseconds, the resolution Postgres keeps for timestamptz
		lastLogin = user.LastLogin.UnixMicro()
	}

	mac := hmac.New(sha256.New, g.key)
	fmt.Fprintf(mac, "%s|%s|%s|%d|%d", user.ID, user.Email, user.Role, lastLogin, issued)
	return hex.EncodeToString(mac.Sum(nil))[:codeDigestLen]
}
