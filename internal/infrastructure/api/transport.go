package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/participa/citizen-portal/internal/core/ports"
	"github.com/participa/citizen-portal/internal/metrics"
)

// bearerTransport decorates a base http.RoundTripper with the two session
// behaviours every request shares: attach the stored bearer token on the
// way out, clear the credential store when a 401 comes back. The response
// itself is always handed to the caller untouched; reacting to the now
// empty session is the route guard's job on the next evaluation.
type bearerTransport struct {
	base   http.RoundTripper
	creds  ports.CredentialStore
	logger zerolog.Logger
}

// NewBearerTransport wraps base with bearer-token handling. A nil base
// falls back to http.DefaultTransport.
func NewBearerTransport(base http.RoundTripper, creds ports.CredentialStore, logger zerolog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &bearerTransport{base: base, creds: creds, logger: logger}
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())

	cred, err := t.creds.Load()
	if err != nil {
		t.logger.Warn().Err(err).Msg("credential load failed, sending request unauthenticated")
	} else if cred != nil {
		out.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.AuthFailuresTotal.Inc()
		if clearErr := t.creds.Clear(); clearErr != nil {
			t.logger.Error().Err(clearErr).Msg("failed to clear credential after 401")
		} else {
			t.logger.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Msg("credential cleared after 401")
		}
	}

	return resp, nil
}
