package id

import (
	"crypto/rand"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// InviteAlphabet omits characters that are easy to misread (0/O, 1/I).
const InviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const DefaultInviteCodeLength = 8

// Generator creates opaque identifiers used outside the database key space.
type Generator interface {
	NewID() (string, error)
	InviteCode() (string, error)
}

type RandomGenerator struct {
	inviteLength int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{inviteLength: DefaultInviteCodeLength}
}

func (g *RandomGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

func (g *RandomGenerator) InviteCode() (string, error) {
	n := g.inviteLength
	if n <= 0 {
		n = DefaultInviteCodeLength
	}

	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	code := make([]byte, n)
	for i := range raw {
		code[i] = InviteAlphabet[int(raw[i])%len(InviteAlphabet)]
	}
	return string(code), nil
}

// ObjectKey joins a key prefix with a fresh uuid and the given extension.
func ObjectKey(gen Generator, prefix, ext string) (string, error) {
	v, err := gen.NewID()
	if err != nil {
		return "", err
	}
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(strings.Trim(prefix, "/"), v+ext), nil
}
