package audit

import (
	"errors"
	"os"
	"strings"
)

// TokenEnv is the environment variable consulted for the backend token.
const TokenEnv = "AEOCHECK_AUDIT_TOKEN"

type TokenSource string

const (
	TokenSourceNone     TokenSource = ""
	TokenSourceExplicit TokenSource = "explicit"
	TokenSourceEnv      TokenSource = "env:" + TokenEnv
)

// ResolveAuthToken resolves the optional audit backend token.
//
// Precedence:
//  1. provided (if non-empty)
//  2. AEOCHECK_AUDIT_TOKEN env var
//
// An empty token is valid: the public backend needs no authentication.
// It never prints the token.
func ResolveAuthToken(provided string) (string, TokenSource, error) {
	tok := strings.TrimSpace(provided)
	src := TokenSourceExplicit
	if tok == "" {
		tok = strings.TrimSpace(os.Getenv(TokenEnv))
		src = TokenSourceEnv
	}
	if tok == "" {
		return "", TokenSourceNone, nil
	}
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", TokenSourceNone, errors.New("invalid audit token: contains whitespace")
	}
	return tok, src, nil
}
