package services

import (
	"sync"
	"time"
)

// RevocationLedger records access tokens revoked before their natural
// expiry. It is constructed once at startup and injected into everything
// that needs it; tests build an isolated instance each.
//
// Entries are keyed by the full token string and carry the token's expiry;
// a lookup past that instant evicts the entry, so the ledger never grows
// beyond the set of revoked-but-unexpired tokens.
type RevocationLedger struct {
	entries sync.Map // token string -> time.Time (expiry)
	tokens  *TokenService
}

func NewRevocationLedger(tokens *TokenService) *RevocationLedger {
	return &RevocationLedger{tokens: tokens}
}

// Revoke records the token as revoked until its embedded expiry. The token
// is verified first; an unverifiable string can never authenticate a
// request, so recording it would be pointless and the call is a no-op.
func (l *RevocationLedger) Revoke(tokenString string) {
	claims, err := l.tokens.Parse(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	l.entries.Store(tokenString, claims.ExpiresAt.Time)
}

// IsRevoked reports whether the token is currently revoked. An entry whose
// expiry has passed is evicted and treated as absent; natural expiry already
// rejects the token, remembering it has no value.
func (l *RevocationLedger) IsRevoked(tokenString string) bool {
	v, ok := l.entries.Load(tokenString)
	if !ok {
		return false
	}
	if time.Now().After(v.(time.Time)) {
		l.entries.Delete(tokenString)
		return false
	}
	return true
}
