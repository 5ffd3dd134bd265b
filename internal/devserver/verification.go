package devserver

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// CodeTTL is how long a verification code stays valid.
const CodeTTL = 10 * time.Minute

type codeEntry struct {
	code    string
	expires time.Time
}

// Verifier issues and checks single-use email verification codes.
type Verifier struct {
	mu    sync.Mutex
	codes map[string]codeEntry
	now   func() time.Time
}

// NewVerifier returns an empty verifier.
func NewVerifier() *Verifier {
	return &Verifier{
		codes: make(map[string]codeEntry),
		now:   time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue generates a six digit code for email, replacing any previous one.
func (v *Verifier) Issue(email string) string {
	code := fmt.Sprintf("%06d", 100000+rand.IntN(900000))

	v.mu.Lock()
	defer v.mu.Unlock()
	v.codes[normalizeEmail(email)] = codeEntry{code: code, expires: v.now().Add(CodeTTL)}
	return code
}

// Verify reports whether code matches the outstanding code for email. A
// matching code is consumed; an expired one is discarded.
func (v *Verifier) Verify(email, code string) bool {
	key := normalizeEmail(email)

	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.codes[key]
	if !ok {
		return false
	}
	if v.now().After(entry.expires) {
		delete(v.codes, key)
		return false
	}
	if !strings.EqualFold(entry.code, strings.TrimSpace(code)) {
		return false
	}
	delete(v.codes, key)
	return true
}
