package tonwallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Wallet contract v4r2 constants. The code cell is only ever hashed (for
// address derivation), so it is pinned as an opaque node rather than carried
// as a compiled blob.
const (
	WalletV4R2SubwalletID = 698983191

	walletV4R2CodeHashHex = "feb5ff6820e2ff0d9483e7e0d62c817d846789fb4ae580c878866d959dabd5c0"
	walletV4R2CodeDepth   = 7
)

// Transfer send mode: pay fees separately, ignore action errors.
const transferSendMode = 3

func walletV4R2Code() *Cell {
	raw, err := hex.DecodeString(walletV4R2CodeHashHex)
	if err != nil {
		panic(err)
	}
	var hash [32]byte
	copy(hash[:], raw)
	return Prebuilt(hash, walletV4R2CodeDepth)
}

// Signer holds the hot wallet's key material and produces signed external
// messages in serialized bag-of-cells form.
type Signer struct {
	privateKey  ed25519.PrivateKey
	publicKey   ed25519.PublicKey
	subwalletID uint32
	addressRaw  string
}

// NewSigner derives the wallet address from the key and contract code.
func NewSigner(privateKey ed25519.PrivateKey) (*Signer, *WalletError) {
	return newSigner(privateKey, "")
}

// NewSignerWithAddress pins an externally known wallet address instead of
// deriving one. The pinned address must already be in normalized raw form.
func NewSignerWithAddress(privateKey ed25519.PrivateKey, addressRaw string) (*Signer, *WalletError) {
	return newSigner(privateKey, addressRaw)
}

func newSigner(privateKey ed25519.PrivateKey, addressRaw string) (*Signer, *WalletError) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, wrapWalletError(
			CodeInvalidKeyMaterial,
			fmt.Sprintf("private key is %d bytes, expected %d", len(privateKey), ed25519.PrivateKeySize),
			nil,
		)
	}

	s := &Signer{
		privateKey:  privateKey,
		publicKey:   privateKey.Public().(ed25519.PublicKey),
		subwalletID: WalletV4R2SubwalletID,
		addressRaw:  addressRaw,
	}
	if s.addressRaw == "" {
		derived, walletErr := s.deriveAddressRaw()
		if walletErr != nil {
			return nil, walletErr
		}
		s.addressRaw = derived
	}
	return s, nil
}

func (s *Signer) AddressRaw() string {
	return s.addressRaw
}

func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.publicKey
}

// deriveAddressRaw computes the basechain address as the hash of the
// contract's state init (code plus initial data).
func (s *Signer) deriveAddressRaw() (string, *WalletError) {
	data, walletErr := s.initialDataCell()
	if walletErr != nil {
		return "", walletErr
	}

	// split_depth: nothing, special: nothing, code and data present,
	// library: empty dict
	stateInit, walletErr := NewBuilder().
		StoreBit(false).
		StoreBit(false).
		StoreBit(true).
		StoreBit(true).
		StoreBit(false).
		StoreRef(walletV4R2Code()).
		StoreRef(data).
		Build()
	if walletErr != nil {
		return "", walletErr
	}

	hash := stateInit.Hash()
	return "0:" + hex.EncodeToString(hash[:]), nil
}

// initialDataCell is the v4r2 storage layout at deployment: seqno 0,
// subwallet id, public key, empty plugin dict.
func (s *Signer) initialDataCell() (*Cell, *WalletError) {
	return NewBuilder().
		StoreUint(0, 32).
		StoreUint(uint64(s.subwalletID), 32).
		StoreBytes(s.publicKey).
		StoreBit(false).
		Build()
}

// BuildSignedTransfer produces the serialized external message carrying one
// signed native transfer of amountNano to destinationRaw. The message is
// valid until now+validFor and must be sent with the wallet's current seqno.
func (s *Signer) BuildSignedTransfer(seqno uint32, destinationRaw string, amountNano int64, validFor time.Duration, now time.Time) ([]byte, *WalletError) {
	internalMsg, walletErr := buildInternalMessage(destinationRaw, amountNano)
	if walletErr != nil {
		return nil, walletErr
	}

	validUntil := uint64(now.Add(validFor).Unix())
	unsignedBody, walletErr := NewBuilder().
		StoreUint(uint64(s.subwalletID), 32).
		StoreUint(validUntil, 32).
		StoreUint(uint64(seqno), 32).
		StoreUint(0, 8). // op: simple send
		StoreUint(transferSendMode, 8).
		StoreRef(internalMsg).
		Build()
	if walletErr != nil {
		return nil, walletErr
	}

	bodyHash := unsignedBody.Hash()
	signature := ed25519.Sign(s.privateKey, bodyHash[:])

	signedBody, walletErr := NewBuilder().
		StoreBytes(signature).
		StoreUint(uint64(s.subwalletID), 32).
		StoreUint(validUntil, 32).
		StoreUint(uint64(seqno), 32).
		StoreUint(0, 8).
		StoreUint(transferSendMode, 8).
		StoreRef(internalMsg).
		Build()
	if walletErr != nil {
		return nil, walletErr
	}

	// ext_in_msg_info$10, src addr_none, dest wallet, import_fee 0,
	// no state init, body by reference
	external, walletErr := NewBuilder().
		StoreUint(0b10, 2).
		StoreAddressNone().
		StoreAddress(s.addressRaw).
		StoreCoins(0).
		StoreBit(false).
		StoreBit(true).
		StoreRef(signedBody).
		Build()
	if walletErr != nil {
		return nil, walletErr
	}

	boc, walletErr := SerializeBOC(external)
	if walletErr != nil {
		return nil, walletErr
	}
	return boc, nil
}

// SignedTransferHash is the identity clients use to track a sent transfer.
func SignedTransferHash(boc []byte) [32]byte {
	return sha256.Sum256(boc)
}

// buildInternalMessage lays out int_msg_info$0 for a non-bounceable send
// with no extra currencies, fees, or state init, and an empty inline body.
func buildInternalMessage(destinationRaw string, amountNano int64) (*Cell, *WalletError) {
	return NewBuilder().
		StoreUint(0, 1).  // int_msg_info$0
		StoreBit(true).   // ihr_disabled
		StoreBit(false).  // bounce
		StoreBit(false).  // bounced
		StoreAddressNone().
		StoreAddress(destinationRaw).
		StoreCoins(amountNano).
		// extra currencies, ihr_fee, fwd_fee, created_lt, created_at,
		// init absent, body inline
		StoreZeroes(1 + 4 + 4 + 64 + 32 + 1 + 1).
		Build()
}
