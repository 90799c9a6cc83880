package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HMACPresigner issues expiring, tamper-evident URLs for stored objects.
// The signature covers the HTTP method, the storage key, and the expiry,
// so an upload link cannot be replayed as a download link or for another
// object.
type HMACPresigner struct {
	baseURL string
	secret  []byte
}

// NewHMACPresigner creates a presigner. baseURL is the externally
// reachable server address the links point at.
func NewHMACPresigner(baseURL, secret string) (*HMACPresigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("presign secret not configured")
	}
	return &HMACPresigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
	}, nil
}

// PresignUpload returns a time-limited PUT URL for the given key
func (p *HMACPresigner) PresignUpload(key string, ttl time.Duration) (string, time.Time, error) {
	return p.presign("PUT", key, ttl)
}

// PresignDownload returns a time-limited GET URL for the given key
func (p *HMACPresigner) PresignDownload(key string, ttl time.Duration) (string, time.Time, error) {
	return p.presign("GET", key, ttl)
}

func (p *HMACPresigner) presign(method, key string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, fmt.Errorf("empty storage key")
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("presign TTL must be positive")
	}

	expires := time.Now().Add(ttl).UTC()
	sig := p.sign(method, key, expires.Unix())

	u := fmt.Sprintf("%s/storage/%s?expires=%d&signature=%s",
		p.baseURL, key, expires.Unix(), sig)

	return u, expires, nil
}

// Verify checks a presigned request's signature and expiry
func (p *HMACPresigner) Verify(method, key string, query url.Values) error {
	expiresStr := query.Get("expires")
	signature := query.Get("signature")
	if expiresStr == "" || signature == "" {
		return fmt.Errorf("missing presign parameters")
	}

	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry: %w", err)
	}

	if time.Now().Unix() > expires {
		return fmt.Errorf("presigned URL expired")
	}

	expected := p.sign(method, key, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("invalid signature")
	}

	return nil
}

func (p *HMACPresigner) sign(method, key string, expires int64) string {
	mac := hmac.New(sha256.New, p.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", method, key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
