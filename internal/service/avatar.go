package service

import "math/rand"

// Avatar collisions are possible since seeds are randomly sampled, so
// generation retries a bounded number of times to guarantee termination.
const avatarRetryLimit = 10

// AvatarGenerator produces avatar identifiers that must not collide with
// any avatar already assigned within the same room.
type AvatarGenerator struct {
	attempts int
	seed     func() string
}

func NewAvatarGenerator() *AvatarGenerator {
	return &AvatarGenerator{
		attempts: avatarRetryLimit,
		seed:     randomAvatar,
	}
}

// Generate returns a collision-free avatar, consulting taken for each
// candidate. Fails with ErrAvatarExhausted once the retry bound is hit.
func (g *AvatarGenerator) Generate(taken func(avatar string) (bool, error)) (string, error) {
	for i := 0; i < g.attempts; i++ {
		avatar := g.seed()
		exists, err := taken(avatar)
		if err != nil {
			return "", err
		}
		if !exists {
			return avatar, nil
		}
	}
	return "", ErrAvatarExhausted
}

func randomAvatar() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	seed := make([]byte, 7)
	for i := range seed {
		seed[i] = letters[rand.Intn(len(letters))]
	}
	return "https://api.multiavatar.com/" + string(seed) + ".svg"
}
