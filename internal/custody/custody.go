package custody

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/greenloop/wastecoin/internal/domain"
)

// GenerateWallet produces a fresh secp256k1 key pair. The address is derived
// from the public key here and nowhere else; the hex private key is handed to
// the caller for immediate encryption and must not outlive that call.
func GenerateWallet() (address, privateKey string, err error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", "", fmt.Errorf("generate key: %w", err)
	}
	address = crypto.PubkeyToAddress(key.PublicKey).Hex()
	privateKey = hexutil.Encode(crypto.FromECDSA(key))
	return address, privateKey, nil
}

// Vault encrypts private keys at rest with AES-256-CBC. The cipher key is
// SHA-256 of the configured passphrase; a fresh random IV is generated per
// encryption and stored next to the ciphertext.
type Vault struct {
	key []byte
}

func NewVault(passphrase string) *Vault {
	k := sha256.Sum256([]byte(passphrase))
	return &Vault{key: k[:]}
}

func (v *Vault) Encrypt(plaintext string) (cipherHex, ivHex string, err error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", "", err
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out), hex.EncodeToString(iv), nil
}

// Decrypt is the exact inverse of Encrypt. Any inconsistency between secret,
// IV and ciphertext fails hard; there is no fallback key.
func (v *Vault) Decrypt(cipherHex, ivHex string) (string, error) {
	ct, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", domain.ErrDecryption
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", domain.ErrDecryption
	}
	if len(iv) != aes.BlockSize || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", domain.ErrDecryption
	}
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", domain.ErrDecryption
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", domain.ErrDecryption
	}
	return string(plain), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, domain.ErrDecryption
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, domain.ErrDecryption
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, domain.ErrDecryption
		}
	}
	return b[:len(b)-n], nil
}
