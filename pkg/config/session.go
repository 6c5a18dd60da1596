package config

import "os"

// Session carries the venue credentials one invocation operates under.
// It is a value: components receive it at construction time and a refresh
// produces a new Session rather than mutating the old one.
type Session struct {
	// AccessToken is the bearer token for authenticated marketplace
	// operations (order creation, authenticated queries).
	AccessToken string
	// APIKey is the gateway API key attached to every request.
	APIKey string
}

// SessionFromEnv builds a Session from environment-held secrets.
func SessionFromEnv() Session {
	return Session{
		AccessToken: os.Getenv("MARKETPLACE_ACCESS_TOKEN"),
		APIKey:      os.Getenv("SKYMAVIS_API_KEY"),
	}
}

// WithAccessToken returns a copy of the session carrying a fresh token.
func (s Session) WithAccessToken(token string) Session {
	s.AccessToken = token
	return s
}

// Authenticated reports whether the session can perform operations that
// require a bearer token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}
