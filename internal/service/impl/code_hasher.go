package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/argon2"
)

type Argon2Params struct {
	// Stored alongside the hash so verification uses the original cost.
	Time    uint32 `json:"t"`
	Memory  uint32 `json:"m"` // KiB
	Threads uint8  `json:"p"`
	KeyLen  uint32 `json:"k"`
	SaltLen uint32 `json:"s"`
}

// CodeHasher generates confirmation codes and derives the argon2id
// digests stored in their place.
type CodeHasher struct {
	cur Argon2Params
}

func NewCodeHasher() *CodeHasher {
	return &CodeHasher{
		cur: Argon2Params{
			Time:    1,
			Memory:  32 * 1024, // 32 MiB; codes are high-entropy, unlike passwords
			Threads: 1,
			KeyLen:  32,
			SaltLen: 16,
		},
	}
}

// Generate returns a fresh random code as lowercase hex.
func (h *CodeHasher) Generate() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (h *CodeHasher) Hash(code string) (hash, salt, paramsJSON []byte, err error) {
	if code == "" {
		return nil, nil, nil, ErrEmptyCode
	}
	salt = make([]byte, h.cur.SaltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, nil, err
	}
	hash = argon2.IDKey([]byte(code), salt, h.cur.Time, h.cur.Memory, h.cur.Threads, h.cur.KeyLen)
	paramsJSON, err = json.Marshal(h.cur)
	if err != nil {
		return nil, nil, nil, err
	}
	return hash, salt, paramsJSON, nil
}

func (h *CodeHasher) Verify(code string, hash, salt, paramsJSON []byte) bool {
	if code == "" || len(hash) == 0 || len(salt) == 0 {
		return false
	}
	params := h.cur
	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &params); err != nil {
			return false
		}
	}
	derived := argon2.IDKey([]byte(code), salt, params.Time, params.Memory, params.Threads, params.KeyLen)
	return subtle.ConstantTimeCompare(derived, hash) == 1
}
