package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/tunecast/internal/models"
)

const (
	VALKEY_TRACK_PREFIX = "tunecast:track:"
	VALKEY_TRACK_TTL    = 1800 // seconds
)

// ValkeyCache is the shared TrackCache for multi-instance deployments.
// Tracks are stored as JSON under a prefixed key with a TTL, so entries
// stay as ephemeral as the in-memory variant.
type ValkeyCache struct {
	client valkey.Client
	mu     sync.Mutex
}

func NewValkeyCache() (*ValkeyCache, error) {
	client, err := newValkeyClient()
	if err != nil {
		return nil, err
	}
	slog.Info("[ValkeyCache] Successfully connected to valkey")
	return &ValkeyCache{client: client}, nil
}

func newValkeyClient() (valkey.Client, error) {
	valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress:      []string{valkeyAddr},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyCache] failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if res := client.Do(ctx, client.B().Ping().Build()); res.Error() != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyCache] failed to ping valkey: %w", res.Error())
	}
	return client, nil
}

func (vc *ValkeyCache) Close() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.client.Close()
}

func (vc *ValkeyCache) Get(ctx context.Context, id string) (*models.Track, bool) {
	res := vc.doWithRetry(ctx, vc.client.B().Get().Key(VALKEY_TRACK_PREFIX+id).Build(), 3)
	if res.Error() != nil {
		return nil, false
	}

	raw, err := res.AsBytes()
	if err != nil {
		return nil, false
	}

	var track models.Track
	if err := json.Unmarshal(raw, &track); err != nil {
		slog.Warn("[ValkeyCache] Failed to decode cached track",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return nil, false
	}
	return &track, true
}

func (vc *ValkeyCache) Put(ctx context.Context, id string, track models.Track) {
	raw, err := json.Marshal(track)
	if err != nil {
		slog.Warn("[ValkeyCache] Failed to encode track",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return
	}

	cmd := vc.client.B().Set().Key(VALKEY_TRACK_PREFIX + id).
		Value(string(raw)).ExSeconds(VALKEY_TRACK_TTL).Build()
	if res := vc.doWithRetry(ctx, cmd, 3); res.Error() != nil {
		slog.Warn("[ValkeyCache] Failed to store track",
			slog.String("id", id),
			slog.String("error", res.Error().Error()))
	}
}

func (vc *ValkeyCache) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.client.Do(ctx, completed)
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyCache] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		if isConnectionError(result.Error()) {
			vc.recreateClient()
		}
		time.Sleep(250 * time.Millisecond)
	}
	return result
}

func (vc *ValkeyCache) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyCache] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyCache] Attempting to recreate valkey client...")
	vc.client.Close()

	client, err := newValkeyClient()
	if err != nil {
		slog.Error("[ValkeyCache] Recreate failed", slog.String("error", err.Error()))
		return
	}
	vc.client = client
	slog.Info("[ValkeyCache] Successfully reconnected to valkey")
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
