package sandbox

import (
	"encoding/base64"

	"github.com/oauth2-proxy/oauth2-proxy/v7/pkg/encryption"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// A sealed token is base64(nonce | ciphertext); GCM nonces are 12 bytes.
const sealNonceLen = 12

var ErrSealKeySize = errors.New("seal key must be 16, 24 or 32 bytes")

// sealer turns oauth2 tokens into the text stored in github.sealed_token
// and back.
type sealer struct {
	cipher encryption.Cipher
}

func newSealer(key []byte) (*sealer, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrSealKeySize
	}
	c, err := encryption.NewGCMCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "seal cipher")
	}
	return &sealer{cipher: c}, nil
}

func (s *sealer) seal(token *oauth2.Token) (string, error) {
	raw, err := json.Marshal(token)
	if err != nil {
		return "", errors.Wrap(err, "encode token")
	}
	box, err := s.cipher.Encrypt(raw)
	if err != nil {
		return "", errors.Wrap(err, "seal token")
	}
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *sealer) open(text string) (*oauth2.Token, error) {
	box, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, "decode sealed token")
	}
	if len(box) < sealNonceLen {
		return nil, errors.Errorf("sealed token too short: %d bytes", len(box))
	}
	raw, err := s.cipher.Decrypt(box)
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(raw, token); err != nil {
		return nil, errors.Wrap(err, "decode token")
	}
	return token, nil
}

// SealToken encrypts token with AES-GCM for the github.sealed_token setting.
func SealToken(token *oauth2.Token, key []byte) (string, error) {
	s, err := newSealer(key)
	if err != nil {
		return "", err
	}
	return s.seal(token)
}

// OpenToken reverses SealToken.
func OpenToken(sealed string, key []byte) (*oauth2.Token, error) {
	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}
	return s.open(sealed)
}
