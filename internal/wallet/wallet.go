// Package wallet is the sole holder of signing key material.
//
// The private key lives only inside this package, is never serialized, and
// never appears in any textual or diagnostic representation. Everything
// else in the process interacts with the key through the three
// capability-gated operations: address derivation, message signing, and
// transaction-hash signing.
package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// redacted replaces key material in every representation of the wallet.
const redacted = "[REDACTED]"

// Wallet holds the signing key. Signing is serialized by a mutex; address
// reads are safe from any goroutine.
type Wallet struct {
	mu      sync.Mutex
	key     *secp256k1.PrivateKey
	address string
}

// SignedMessage is the result of SignMessage. It carries no key material.
type SignedMessage struct {
	Address     string `json:"address"`
	MessageHash string `json:"message_hash"`
	Signature   string `json:"signature"`
}

// SignedTx is the result of SignTxHash / SignTxBytes.
type SignedTx struct {
	Address   string `json:"address"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

// FromEnv builds a wallet from a hex-encoded private key in the named
// environment variable. A missing variable is fatal configuration: the
// process must refuse to serve rather than run without custody.
func FromEnv(varName string) (*Wallet, error) {
	keyHex := os.Getenv(varName)
	if keyHex == "" {
		return nil, fmt.Errorf("%w: environment variable %s not set", model.ErrFatalConfiguration, varName)
	}
	return FromHex(keyHex)
}

// FromHex builds a wallet from a hex-encoded 32-byte private key. All
// validation happens before the key material is retained; on any error no
// partial key state survives.
func FromHex(keyHex string) (*Wallet, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(keyHex), "0x")
	if len(trimmed) != 64 {
		return nil, fmt.Errorf("wallet: private key must be 32 bytes (64 hex chars), got %d chars", len(trimmed))
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("wallet: private key is not valid hex")
	}

	key := secp256k1.PrivKeyFromBytes(raw)
	if key.Key.IsZero() {
		return nil, fmt.Errorf("wallet: private key is zero")
	}

	w := &Wallet{key: key}
	w.address = deriveAddress(key.PubKey())
	return w, nil
}

// Address returns the EIP-55 checksummed public address. Read-only; never
// touches the private key.
func (w *Wallet) Address() string {
	return w.address
}

// SignMessage hashes the message with the EIP-191 personal-message
// convention (domain prefix, length, payload, keccak256) and signs the hash.
func (w *Wallet) SignMessage(message string) (SignedMessage, error) {
	prefixed := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message)) + message
	hash := Keccak256([]byte(prefixed))

	sig, err := w.signHash(hash)
	if err != nil {
		return SignedMessage{}, err
	}
	return SignedMessage{
		Address:     w.address,
		MessageHash: hexPrefixed(hash),
		Signature:   hexPrefixed(sig),
	}, nil
}

// SignTxHash signs a precomputed 32-byte transaction hash.
func (w *Wallet) SignTxHash(txHash []byte) (SignedTx, error) {
	if len(txHash) != 32 {
		return SignedTx{}, fmt.Errorf("wallet: tx hash must be 32 bytes, got %d", len(txHash))
	}

	sig, err := w.signHash(txHash)
	if err != nil {
		return SignedTx{}, err
	}
	return SignedTx{
		Address:   w.address,
		Hash:      hexPrefixed(txHash),
		Signature: hexPrefixed(sig),
	}, nil
}

// SignTxBytes hashes raw transaction bytes with keccak256 and signs the
// result. Equivalent to SignTxHash(Keccak256(raw)).
func (w *Wallet) SignTxBytes(raw []byte) (SignedTx, error) {
	if len(raw) == 0 {
		return SignedTx{}, fmt.Errorf("wallet: tx bytes must not be empty")
	}
	return w.SignTxHash(Keccak256(raw))
}

// signHash produces a 65-byte r||s||v recoverable signature. Serialized:
// the underlying primitive is not documented as reentrant.
func (w *Wallet) signHash(hash []byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	compact := secpecdsa.SignCompact(w.key, hash, false)
	if len(compact) != 65 {
		return nil, fmt.Errorf("wallet: unexpected signature length %d", len(compact))
	}

	// SignCompact puts the recovery header first; Ethereum wants r||s||v.
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0] // 27 or 28 for an uncompressed key
	return sig, nil
}

// String redacts key material.
func (w *Wallet) String() string {
	return fmt.Sprintf("Wallet(address=%s key=%s)", w.address, redacted)
}

// GoString redacts key material for %#v.
func (w *Wallet) GoString() string {
	return w.String()
}

// MarshalJSON serializes only the public address.
func (w *Wallet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Address string `json:"address"`
	}{Address: w.address})
}

// Keccak256 returns the keccak256 digest of data.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// DecodeHex decodes a hex string with optional 0x prefix.
func DecodeHex(input string) ([]byte, error) {
	trimmed := strings.TrimPrefix(input, "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %v", err)
	}
	return raw, nil
}

func hexPrefixed(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// deriveAddress computes the EIP-55 checksummed address for a public key.
func deriveAddress(pub *secp256k1.PublicKey) string {
	uncompressed := pub.SerializeUncompressed()
	digest := Keccak256(uncompressed[1:])
	return checksumAddress(digest[12:])
}

// checksumAddress applies EIP-55 mixed-case checksumming to 20 address bytes.
func checksumAddress(addr []byte) string {
	lower := hex.EncodeToString(addr)
	digest := Keccak256([]byte(lower))

	out := []byte(lower)
	for i := range out {
		if out[i] < 'a' || out[i] > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] -= 'a' - 'A'
		}
	}
	return "0x" + string(out)
}
