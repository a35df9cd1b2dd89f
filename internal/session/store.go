// Package session holds the bearer token between runs. The token is
// the only durable client-side state: set on login, cleared on logout,
// read once per outgoing request.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// lightweight per-user token file (0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but avoids plain-text storage.

const fileName = "session.json"

type sessionFile struct {
	Token string `json:"token"` // base64(ciphertext)
}

// Store is the explicit session object handed to the API client.
// A zero-value dir means the user config directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. Pass "" to use
// os.UserConfigDir()/riskwatch.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Set persists the token, replacing any previous one.
func (s *Store) Set(token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	path, err := s.filePath()
	if err != nil {
		return err
	}
	ct, err := encrypt([]byte(token))
	if err != nil {
		return err
	}
	return save(path, sessionFile{Token: base64.StdEncoding.EncodeToString(ct)})
}

// Clear removes the stored token. Clearing an absent token is not an
// error.
func (s *Store) Clear() error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the stored token, or "" when none is stored. Errors
// are reserved for unreadable or corrupt session files.
func (s *Store) Token() (string, error) {
	path, err := s.filePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return "", err
	}
	if sf.Token == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(sf.Token)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// LoggedIn reports whether a token is currently stored.
func (s *Store) LoggedIn() bool {
	token, err := s.Token()
	return err == nil && token != ""
}

func (s *Store) filePath() (string, error) {
	dir := s.dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "riskwatch")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func save(path string, sf sessionFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func masterKey() []byte {
	user := os.Getenv("USER")
	base := fmt.Sprintf("riskwatch-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func encrypt(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
