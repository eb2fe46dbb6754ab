package valueobjects

import (
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

// TON addresses appear in two interchangeable textual encodings:
//
//	raw:      "<workchain>:<64 hex chars>"          e.g. "0:abc1...ff"
//	friendly: base64url(flags ‖ workchain ‖ hash ‖ crc16), 36 bytes pre-encoding
//
// Everything in this repository compares addresses in normalized raw form.

const friendlyAddressLength = 36

const (
	friendlyFlagBounceable    byte = 0x11
	friendlyFlagNonBounceable byte = 0x51
	friendlyFlagTestnet       byte = 0x80
)

var rawAddressPattern = regexp.MustCompile(`^(-?\d+):([0-9a-fA-F]{64})$`)

// NormalizeTONAddress converts either textual encoding to the canonical raw
// form "<workchain>:<lowercase hex>". The friendly form's CRC16 bytes are
// deliberately not verified: structurally valid input is accepted regardless
// of its checksum, matching the behavior deposits were matched with in
// production.
func NormalizeTONAddress(address string) (string, *apperrors.AppError) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", apperrors.NewValidation(
			"ton_address_empty",
			"ton address is required",
			nil,
		)
	}

	if match := rawAddressPattern.FindStringSubmatch(trimmed); match != nil {
		return match[1] + ":" + strings.ToLower(match[2]), nil
	}

	return friendlyToRaw(trimmed)
}

func friendlyToRaw(friendly string) (string, *apperrors.AppError) {
	padded := strings.ReplaceAll(friendly, "-", "+")
	padded = strings.ReplaceAll(padded, "_", "/")
	for len(padded)%4 != 0 {
		padded += "="
	}

	decoded, err := base64.StdEncoding.DecodeString(padded)
	if err != nil {
		return "", apperrors.NewValidation(
			"ton_address_invalid",
			"ton address is not valid base64",
			map[string]any{"address": friendly},
		)
	}
	if len(decoded) != friendlyAddressLength {
		return "", apperrors.NewValidation(
			"ton_address_length_invalid",
			"friendly ton address must decode to 36 bytes",
			map[string]any{"decoded_length": len(decoded)},
		)
	}

	// decoded[0] carries the bounceable/testnet flags; matching ignores them.
	workchain := int8(decoded[1])
	hash := decoded[2:34]
	// decoded[34:36] is the CRC16, accepted unverified.

	return strconv.Itoa(int(workchain)) + ":" + hex.EncodeToString(hash), nil
}

// TONAddressesEqual reports whether two addresses identify the same account.
// An address that fails to normalize is never equal to anything.
func TONAddressesEqual(a, b string) bool {
	rawA, appErr := NormalizeTONAddress(a)
	if appErr != nil {
		return false
	}
	rawB, appErr := NormalizeTONAddress(b)
	if appErr != nil {
		return false
	}

	return rawA == rawB
}

// FriendlyTONAddress re-encodes a raw address into the friendly base64url
// form. Used for display only; storage and comparison stay raw.
func FriendlyTONAddress(raw string, bounceable bool, testnet bool) (string, *apperrors.AppError) {
	match := rawAddressPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return "", apperrors.NewValidation(
			"ton_address_invalid",
			"raw ton address is invalid",
			map[string]any{"address": raw},
		)
	}

	workchain, err := strconv.Atoi(match[1])
	if err != nil || workchain < -128 || workchain > 127 {
		return "", apperrors.NewValidation(
			"ton_address_workchain_invalid",
			"ton address workchain is out of range",
			map[string]any{"workchain": match[1]},
		)
	}

	hash, err := hex.DecodeString(match[2])
	if err != nil {
		return "", apperrors.NewValidation(
			"ton_address_invalid",
			"raw ton address hash is not valid hex",
			map[string]any{"address": raw},
		)
	}

	flags := friendlyFlagBounceable
	if !bounceable {
		flags = friendlyFlagNonBounceable
	}
	if testnet {
		flags |= friendlyFlagTestnet
	}

	payload := make([]byte, 0, friendlyAddressLength)
	payload = append(payload, flags, byte(int8(workchain)))
	payload = append(payload, hash...)
	checksum := crc16XModem(payload)
	payload = append(payload, byte(checksum>>8), byte(checksum))

	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// crc16XModem is the CCITT/XMODEM variant used by friendly addresses
// (polynomial 0x1021, zero initial value).
func crc16XModem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
