// Package seedvault keeps the server seed secret. The seed lives in the OS
// keychain, or in a private file where no keychain exists. Only its hash is
// published until it is rotated out.
package seedvault

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/zalando/go-keyring"
)

// DefaultService is the keychain service name.
const DefaultService = "numfind"

const (
	account     = "default"
	keyCurrent  = "server_seed"
	keyPrevious = "previous_seed"
	seedBytes   = 32
)

// ErrNoPrevious is returned by Previous before the first rotation.
var ErrNoPrevious = errors.New("seedvault: no previous seed")

// Commitment is what may be shown to players: the hash of the active seed
// and, after a rotation, the revealed previous seed.
type Commitment struct {
	ServerSeedHash string `json:"server_seed_hash"`
	PreviousSeed   string `json:"previous_seed,omitempty"`
	PreviousHash   string `json:"previous_hash,omitempty"`
}

// Vault wraps the OS keychain with an optional file fallback.
type Vault struct {
	service      string
	fallbackPath string
	mu           sync.Mutex
}

// New creates a vault. fallbackPath may be empty to require a keychain.
func New(service, fallbackPath string) *Vault {
	if strings.TrimSpace(service) == "" {
		service = DefaultService
	}
	return &Vault{service: service, fallbackPath: fallbackPath}
}

// Current returns the active server seed, creating one on first use.
func (v *Vault) Current() (string, error) {
	seed, err := v.getSecret(keyCurrent)
	if err == nil {
		return seed, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return "", err
	}

	seed, err = newSeed()
	if err != nil {
		return "", err
	}
	if err := v.setSecret(keyCurrent, seed); err != nil {
		return "", err
	}
	return seed, nil
}

// Commitment returns the public view of the vault.
func (v *Vault) Commitment() (Commitment, error) {
	seed, err := v.Current()
	if err != nil {
		return Commitment{}, err
	}
	c := Commitment{ServerSeedHash: engine.HashServerSeed(seed)}
	if prev, err := v.Previous(); err == nil {
		c.PreviousSeed = prev
		c.PreviousHash = engine.HashServerSeed(prev)
	}
	return c, nil
}

// Previous returns the seed revealed by the last rotation.
func (v *Vault) Previous() (string, error) {
	prev, err := v.getSecret(keyPrevious)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoPrevious
	}
	return prev, err
}

// Rotate retires the active seed and commits a new one. The retired seed is
// returned so it can be published.
func (v *Vault) Rotate() (revealed string, c Commitment, err error) {
	revealed, err = v.Current()
	if err != nil {
		return "", Commitment{}, err
	}
	next, err := newSeed()
	if err != nil {
		return "", Commitment{}, err
	}
	if err := v.setSecret(keyPrevious, revealed); err != nil {
		return "", Commitment{}, err
	}
	if err := v.setSecret(keyCurrent, next); err != nil {
		return "", Commitment{}, err
	}
	return revealed, Commitment{
		ServerSeedHash: engine.HashServerSeed(next),
		PreviousSeed:   revealed,
		PreviousHash:   engine.HashServerSeed(revealed),
	}, nil
}

func newSeed() (string, error) {
	buf := make([]byte, seedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("seedvault: generate seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (v *Vault) key(part string) string {
	return fmt.Sprintf("%s/%s", account, part)
}

func (v *Vault) setSecret(part, value string) error {
	if err := keyring.Set(v.service, v.key(part), value); err == nil {
		return nil
	} else if !isKeyringUnavailable(err) {
		return fmt.Errorf("seedvault: keyring set %s: %w", part, err)
	}
	return v.setFallback(part, value)
}

func (v *Vault) getSecret(part string) (string, error) {
	val, err := keyring.Get(v.service, v.key(part))
	if err == nil {
		return val, nil
	}
	if !isKeyringUnavailable(err) && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("seedvault: keyring get %s: %w", part, err)
	}

	fallback, ferr := v.getFallback(part)
	if ferr == nil {
		return fallback, nil
	}
	if errors.Is(err, keyring.ErrNotFound) || errors.Is(ferr, keyring.ErrNotFound) {
		return "", keyring.ErrNotFound
	}
	return "", ferr
}

func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}

type fallbackSecrets map[string]string

func (v *Vault) setFallback(part, value string) error {
	if strings.TrimSpace(v.fallbackPath) == "" {
		return fmt.Errorf("seedvault: keyring unavailable and no fallback path configured")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.readFallbackUnlocked()
	if err != nil {
		return err
	}
	data[part] = value
	return v.writeFallbackUnlocked(data)
}

func (v *Vault) getFallback(part string) (string, error) {
	if strings.TrimSpace(v.fallbackPath) == "" {
		return "", fmt.Errorf("seedvault: fallback path not configured")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.readFallbackUnlocked()
	if err != nil {
		return "", err
	}
	val, ok := data[part]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return val, nil
}

func (v *Vault) readFallbackUnlocked() (fallbackSecrets, error) {
	out := fallbackSecrets{}
	raw, err := os.ReadFile(v.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("seedvault: read fallback secrets: %w", err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("seedvault: decode fallback secrets: %w", err)
	}
	return out, nil
}

func (v *Vault) writeFallbackUnlocked(data fallbackSecrets) error {
	if err := os.MkdirAll(filepath.Dir(v.fallbackPath), 0o700); err != nil {
		return fmt.Errorf("seedvault: mkdir fallback dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("seedvault: encode fallback secrets: %w", err)
	}
	if err := os.WriteFile(v.fallbackPath, raw, 0o600); err != nil {
		return fmt.Errorf("seedvault: write fallback secrets: %w", err)
	}
	return nil
}
