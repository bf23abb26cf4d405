package pkg

import "math/rand"

const (
	gameIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	gameIDLength   = 6
)

// GenerateGameID returns a short non-cryptographic game identifier. Callers
// are expected to retry on collision against their live set.
func GenerateGameID() string {
	id := make([]byte, gameIDLength)
	for i := range id {
		id[i] = gameIDAlphabet[rand.Intn(len(gameIDAlphabet))] //nolint:gosec // ids are not secrets
	}

	return string(id)
}
