package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidPublicKey = errors.New("invalid Ed25519 public key")
	ErrInvalidSignature = errors.New("invalid signature")
)

// ParsePublicKey decodes a hex-encoded Ed25519 public key, the format the
// Discord developer portal hands out.
func ParsePublicKey(keyHex string) (ed25519.PublicKey, error) {
	decoded, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex encoding", ErrInvalidPublicKey)
	}

	if len(decoded) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidPublicKey, ed25519.PublicKeySize, len(decoded))
	}

	return ed25519.PublicKey(decoded), nil
}

// VerifySignature checks the detached Ed25519 signature Discord sends with
// every interaction request. The signed data is timestamp || body.
func VerifySignature(pubkey ed25519.PublicKey, timestamp string, body []byte, signatureHex string) error {
	if len(pubkey) != ed25519.PublicKeySize {
		return ErrInvalidPublicKey
	}

	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("%w: invalid hex encoding", ErrInvalidSignature)
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidSignature, ed25519.SignatureSize, len(signature))
	}

	signed := make([]byte, 0, len(timestamp)+len(body))
	signed = append(signed, timestamp...)
	signed = append(signed, body...)

	if !ed25519.Verify(pubkey, signed, signature) {
		return ErrInvalidSignature
	}

	return nil
}
