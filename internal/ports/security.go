package ports

import (
	"context"

	"github.com/reelpilot/autopost/internal/domain"
)

// SecretVault reversibly seals secrets (account passwords, proxy credentials)
// for storage at rest.
type SecretVault interface {
	Seal(plaintext string) (string, error)
	Unseal(sealed string) (string, error)
}

// ProxyProber performs the actual connectivity test against a proxy. The core
// owns only the state transition after the result; the network work is
// delegated here so tests and alternative probers can swap it out.
type ProxyProber interface {
	Probe(ctx context.Context, proxy domain.Proxy, credentials ProxyCredentials) error
}

// ProxyCredentials is the unsealed credential pair handed to a prober for the
// duration of one probe. It is never persisted or logged.
type ProxyCredentials struct {
	Username string
	Password string
}
