package pki

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"
)

// Supported RSA modulus sizes for generated keys.
const (
	MinKeyBits = 1024
	MaxKeyBits = 16384
)

// KeyPair is an RSA key pair. The public component is always the one
// embedded in the private key.
type KeyPair struct {
	private *rsa.PrivateKey
}

// Private returns the private key.
func (k *KeyPair) Private() *rsa.PrivateKey {
	return k.private
}

// Public returns the public key derived from the private key.
func (k *KeyPair) Public() *rsa.PublicKey {
	return &k.private.PublicKey
}

// Bits returns the modulus length in bits.
func (k *KeyPair) Bits() int {
	return k.private.N.BitLen()
}

// KeySource selects where the key pair comes from. It is either
// GenerateKey or LoadKey.
type KeySource interface {
	isKeySource()
}

// GenerateKey requests a fresh key pair of the given modulus length.
type GenerateKey struct {
	Bits int
}

// LoadKey requests the key pair stored in a PEM file.
type LoadKey struct {
	Path string
}

func (GenerateKey) isKeySource() {}
func (LoadKey) isKeySource()     {}

// AcquireKey resolves a key source into a key pair. The random source is only
// read when a key is generated.
func AcquireKey(src KeySource, random io.Reader) (*KeyPair, error) {
	switch s := src.(type) {
	case GenerateKey:
		return Generate(s.Bits, random)
	case LoadKey:
		return Load(s.Path)
	default:
		return nil, fmt.Errorf("unknown key source %T", src)
	}
}

// Generate creates a new RSA key pair with a modulus of the given size.
func Generate(bits int, random io.Reader) (*KeyPair, error) {
	if random == nil {
		return nil, fmt.Errorf("%w: random source not initialized", ErrKeyGeneration)
	}
	if bits < MinKeyBits || bits > MaxKeyBits {
		return nil, fmt.Errorf("%w: unsupported key length %d (want %d-%d)", ErrKeyGeneration, bits, MinKeyBits, MaxKeyBits)
	}

	key, err := rsa.GenerateKey(random, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	return &KeyPair{private: key}, nil
}

// Load reads an RSA private key from a PEM file. Both PKCS#1
// ("RSA PRIVATE KEY") and PKCS#8 ("PRIVATE KEY") blocks are accepted.
func Load(path string) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	return DecodeKey(data)
}

// DecodeKey decodes the first PEM block of data as an RSA private key.
func DecodeKey(data []byte) (*KeyPair, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrDecode)
	}

	var key *rsa.PrivateKey
	switch block.Type {
	case pemTypeRSAPrivateKey:
		k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		key = k
	case pemTypePrivateKey:
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		rsaKey, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key is not RSA (got %T)", ErrDecode, k)
		}
		key = rsaKey
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrDecode, block.Type)
	}

	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &KeyPair{private: key}, nil
}

