package webbridge

import (
	"github.com/google/uuid"
	"github.com/zalando/go-keyring"
)

// tokenService namespaces the bearer token in the OS keychain, mirroring
// the teacher's own keyring.Set(service, account, secret) usage for the
// Linear OAuth token.
const tokenService = "zmux.webbridge"

// LoadOrCreateToken returns the bearer token attached clients (and the
// web bridge CLI) must present on every request besides /info/version.
// account namespaces the token per local user; a fresh session keeps
// using the same token across restarts so a browser tab doesn't need
// re-authorizing every time the server is relaunched.
func LoadOrCreateToken(account string) (string, error) {
	tok, err := keyring.Get(tokenService, account)
	if err == nil && tok != "" {
		return tok, nil
	}

	tok = uuid.New().String()
	if err := keyring.Set(tokenService, account, tok); err != nil {
		return "", err
	}
	return tok, nil
}

// ForgetToken removes the stored bearer token, forcing the next
// LoadOrCreateToken call to mint a new one.
func ForgetToken(account string) error {
	return keyring.Delete(tokenService, account)
}
