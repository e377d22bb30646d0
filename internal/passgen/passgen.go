// Package passgen generates random passwords and scores password strength.
// The functions are pure and hold no shared state.
package passgen

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"unicode"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()-_=+[]{};:,.<>?"
)

// ErrNoCharacterSets is returned by Generate when no character sets are
// selected in the options.
var ErrNoCharacterSets = errors.New("no character sets selected")

// Options controls password generation.
type Options struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Digits    bool
	Symbols   bool
}

func (o Options) selectedSets() []string {
	var sets []string
	if o.Uppercase {
		sets = append(sets, uppercaseChars)
	}
	if o.Lowercase {
		sets = append(sets, lowercaseChars)
	}
	if o.Digits {
		sets = append(sets, digitChars)
	}
	if o.Symbols {
		sets = append(sets, symbolChars)
	}
	return sets
}

// Generate returns a random password of opts.Length characters drawn from
// the union of the selected character sets. When the length allows, the
// result contains at least one character from every selected set.
func Generate(opts Options) (string, error) {
	if opts.Length <= 0 {
		return "", errors.New("password length must be positive")
	}

	sets := opts.selectedSets()
	if len(sets) == 0 {
		return "", ErrNoCharacterSets
	}
	union := strings.Join(sets, "")

	out := make([]byte, 0, opts.Length)

	// Guarantee one character from each selected set when it fits.
	if opts.Length >= len(sets) {
		for _, set := range sets {
			c, err := randomChar(set)
			if err != nil {
				return "", err
			}
			out = append(out, c)
		}
	}

	for len(out) < opts.Length {
		c, err := randomChar(union)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// Strength scores a password from 0 to 100 using a length component (up to
// 40 points, 2 per character) and 15 points per character class present.
func Strength(password string) int {
	if password == "" {
		return 0
	}

	score := len(password) * 2
	if score > 40 {
		score = 40
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	for _, present := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if present {
			score += 15
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
