package auth

import (
	"crypto/rand"
	"os"
)

// SecretEnv holds the HMAC key for HTTP bearer tokens.
const SecretEnv = "GROK_MCP_SECRET"

// retrieve the JWT secret used for signing tokens
func GetSecret() []byte {
	return []byte(os.Getenv(SecretEnv))
}

// ephemeral key used when no secret is configured; tokens signed with it
// only verify inside the same process.
func randomSecret() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
