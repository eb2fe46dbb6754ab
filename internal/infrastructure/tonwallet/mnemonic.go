package tonwallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	mnemonicWordCount = 24

	mnemonicSalt       = "TON default seed"
	mnemonicIterations = 100000
	mnemonicKeyLen     = 32
)

// KeyFromMnemonic derives the ed25519 signing key from a 24-word recovery
// phrase: HMAC-SHA512 of the phrase yields the entropy, PBKDF2-SHA512 over
// that entropy yields the 32-byte seed. Word casing and surrounding
// whitespace are normalized; the word list itself is not validated.
func KeyFromMnemonic(mnemonic string) (ed25519.PrivateKey, *WalletError) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(mnemonic)))
	if len(words) != mnemonicWordCount {
		return nil, wrapWalletError(
			CodeInvalidMnemonic,
			fmt.Sprintf("mnemonic has %d words, expected %d", len(words), mnemonicWordCount),
			nil,
		)
	}

	phrase := strings.Join(words, " ")
	mac := hmac.New(sha512.New, []byte(phrase))
	mac.Write([]byte(""))
	entropy := mac.Sum(nil)

	seed := pbkdf2.Key(entropy, []byte(mnemonicSalt), mnemonicIterations, mnemonicKeyLen, sha512.New)
	return ed25519.NewKeyFromSeed(seed), nil
}
