package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/nikhilbhutani/voicerelay/internal/cache"
	"github.com/nikhilbhutani/voicerelay/internal/metrics"
)

// CachedProvider memoizes synthesized audio in Redis. Cache failures are
// logged and never fail a synthesis.
type CachedProvider struct {
	next    Provider
	cache   *cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewCachedProvider(next Provider, c *cache.Cache, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *CachedProvider {
	return &CachedProvider{next: next, cache: c, ttl: ttl, logger: logger, metrics: m}
}

func (p *CachedProvider) Name() string { return p.next.Name() }

func (p *CachedProvider) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	key := p.key(req)

	audio, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		p.metrics.RecordCacheLookup("hit")
		return &SynthesisResult{Audio: audio, ContentType: ContentTypeMP3}, nil
	case errors.Is(err, cache.ErrMiss):
		p.metrics.RecordCacheLookup("miss")
	default:
		p.metrics.RecordCacheLookup("error")
		p.logger.Warn("synthesis cache lookup failed", "error", err)
	}

	res, err := p.next.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, res.Audio, p.ttl); err != nil {
		p.logger.Warn("synthesis cache store failed", "error", err)
	}
	return res, nil
}

// Close closes the wrapped provider when it holds resources.
func (p *CachedProvider) Close() error {
	if c, ok := p.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (p *CachedProvider) key(req SynthesisRequest) string {
	voice := req.Voice
	if voice == "" {
		voice = DefaultVoice
	}
	h := sha256.New()
	for _, part := range []string{p.next.Name(), voice, req.Input} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
