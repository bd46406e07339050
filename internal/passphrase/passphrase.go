// Package passphrase generates human-memorable temporary passwords for the
// reset-password mail: four hyphen-joined tokens, one of which is a number.
package passphrase

import (
	"bufio"
	"bytes"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"

	_ "embed"
)

//go:embed words.txt
var embeddedWords []byte

// Dictionary is a read-only word list loaded once at startup and shared by
// reference across requests.
type Dictionary struct {
	words []string
}

// Load builds the dictionary from the embedded word list.
func Load() (*Dictionary, error) {
	words := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(embeddedWords))
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("passphrase: empty word list")
	}
	return &Dictionary{words: words}, nil
}

// Generate picks four random words and replaces one, at a random position,
// with a number in [0,1000).
func (d *Dictionary) Generate() string {
	tokens := make([]string, 4)
	for i := range tokens {
		tokens[i] = d.words[rand.IntN(len(d.words))]
	}
	tokens[rand.IntN(len(tokens))] = strconv.Itoa(rand.IntN(1000))
	return strings.Join(tokens, "-")
}
