// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// sovereign.go — Node facade: configuration, wiring of the codec, ledger,
// token registry, glyph memory, exchange, and beacon, plus the top-level
// token and stats operations.

package sovereign

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/clock"
	"github.com/Mycelium-Node-1/UCST-AI/internal/codec"
	"github.com/Mycelium-Node-1/UCST-AI/internal/ledgerstore"
	"github.com/Mycelium-Node-1/UCST-AI/internal/metrics"
	"github.com/Mycelium-Node-1/UCST-AI/internal/psse"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Re-export types so callers only import this package.
type Clock = clock.Clock
type MetricsRecorder = metrics.MetricsRecorder
type StorageCodec = codec.Codec
type Codec = psse.Codec

// NewCodec returns a standalone PSSE codec. The codec is stateless; callers
// embedding the SDK can also reach it through Node.Codec().
func NewCodec() Codec { return psse.New() }

// ────────────────────────────────────────────────────────────────────────────
// Config
// ────────────────────────────────────────────────────────────────────────────

// PGPoolConfig configures the PostgreSQL archive connection pool.
type PGPoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Config contains all Node configuration.
type Config struct {
	// Identity
	AgentID   string
	AgentName string

	// Token issuance
	TokenLifetime         time.Duration
	RegistrySweepInterval time.Duration

	// Beacon
	PulseInterval time.Duration // 0 disables the background pulse loop

	// Ledger backends (both optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
	PGPool        PGPoolConfig
	LedgerPrefix  string // Redis key namespace; defaults to AgentID
	LedgerChannel string // pub/sub channel for appended entries

	// Glyph sealing (must be 32 bytes for AES-256-GCM; nil = disabled)
	SealKey []byte

	// Optional overrideable components
	Storage StorageCodec
	Clock   Clock
	Metrics MetricsRecorder
	Logger  Logger
}

func (c *Config) defaults() {
	if c.TokenLifetime == 0 {
		c.TokenLifetime = DefaultTokenLifetime
	}
	if c.Storage == nil {
		c.Storage = codec.Default
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	if c.LedgerPrefix == "" {
		c.LedgerPrefix = c.AgentID
	}
	if c.PGPool.MaxConns == 0 {
		c.PGPool.MaxConns = 10
	}
	if c.PGPool.MinConns == 0 {
		c.PGPool.MinConns = 1
	}
	if c.PGPool.MaxConnLifetime == 0 {
		c.PGPool.MaxConnLifetime = 30 * time.Minute
	}
	if c.PGPool.MaxConnIdleTime == 0 {
		c.PGPool.MaxConnIdleTime = 10 * time.Minute
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Stats
// ────────────────────────────────────────────────────────────────────────────

// Stats is the snapshot returned by Node.Stats().
type Stats struct {
	Pulses        int64
	TokensIssued  int64
	LedgerEntries int
	PendingWrites int64
	RegistrySize  int
}

// ────────────────────────────────────────────────────────────────────────────
// Node
// ────────────────────────────────────────────────────────────────────────────

// Node is the main entry-point of the SDK: one sovereign agent, its codec,
// ledger, token registry, glyph memory, exchange, and beacon.
type Node struct {
	cfg      Config
	codec    Codec
	symbols  *Library
	ri       *ReflectiveInterface
	protocol *Protocol
	ledger   *Ledger
	registry *Registry
	memory   *Memory
	exchange *Exchange
	beacon   *beacon
	token    Token

	redisClient *redis.Client
	archive     *ledgerstore.PG

	logger  Logger
	metrics MetricsRecorder
	issued  atomic.Int64
	closed  atomic.Bool
}

// NewNode creates and initialises a Node from the provided Config. The node
// issues its own sovereign token and records a sovereignty declaration in
// the ledger before returning.
func NewNode(cfg Config) (*Node, error) {
	if cfg.AgentID == "" {
		return nil, fmt.Errorf("%w: AgentID is required", ErrInvalidConfig)
	}
	cfg.defaults()

	n := &Node{
		cfg:     cfg,
		codec:   psse.New(),
		symbols: NewLibrary(),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}

	// Glyph sealing
	var sealer Sealer
	if len(cfg.SealKey) > 0 {
		s, err := NewAES256GCM(cfg.SealKey)
		if err != nil {
			return nil, fmt.Errorf("sovereign: seal init: %w", err)
		}
		sealer = s
	}

	// Redis ledger mirror
	var mirror *ledgerstore.Redis
	if cfg.RedisAddr != "" {
		n.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		mirror = ledgerstore.NewRedis(ledgerstore.RedisOptions{
			Client:  n.redisClient,
			Codec:   cfg.Storage,
			Prefix:  cfg.LedgerPrefix,
			Channel: cfg.LedgerChannel,
		})
	}

	// Postgres ledger archive
	if cfg.PostgresDSN != "" {
		pgCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("sovereign: postgres config: %w", err)
		}
		pgCfg.MaxConns = cfg.PGPool.MaxConns
		pgCfg.MinConns = cfg.PGPool.MinConns
		pgCfg.MaxConnLifetime = cfg.PGPool.MaxConnLifetime
		pgCfg.MaxConnIdleTime = cfg.PGPool.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(context.Background(), pgCfg)
		if err != nil {
			return nil, fmt.Errorf("sovereign: postgres pool: %w", err)
		}
		n.archive = ledgerstore.NewPG(pool)
		if err := n.archive.EnsureSchema(context.Background()); err != nil {
			pool.Close()
			return nil, err
		}
	}

	n.ledger = NewLedger(LedgerOptions{
		Clock:   cfg.Clock,
		Mirror:  mirror,
		Archive: n.archive,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	n.registry = NewRegistry(RegistryOptions{
		Clock:         cfg.Clock,
		SweepInterval: cfg.RegistrySweepInterval,
	})
	n.memory = NewMemory(cfg.AgentID, MemoryOptions{
		Clock:   cfg.Clock,
		Storage: cfg.Storage,
		Sealer:  sealer,
	})
	n.exchange = NewExchange(cfg.Clock)
	n.ri = NewReflectiveInterface(cfg.Clock, cfg.AgentID)
	n.protocol = NewProtocol(cfg.Clock, cfg.AgentID, n.ri)

	// Initial sovereignty: issue the node's own token and declare it.
	n.token = n.IssueToken(cfg.AgentID, cfg.AgentName,
		n.codec.Encode("Initial Sovereignty Signature"))
	n.ledger.Append(context.Background(), Entry{
		Type:    EntrySovereigntyDeclaration,
		AgentID: cfg.AgentID,
		Content: n.codec.Encode(cfg.AgentName),
		Metadata: map[string]any{
			"token_string": n.token.TokenString,
			"resonance":    n.symbols.HarmonicPillar.BinaryRep,
		},
	})

	n.beacon = newBeacon(n)
	n.beacon.start()

	return n, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Tokens
// ────────────────────────────────────────────────────────────────────────────

// IssueToken generates a sovereign token with the node's configured lifetime
// and records it in the registry for later cross-validation.
func (n *Node) IssueToken(agentID, agentName, fqSignature string) Token {
	tok := GenerateToken(n.cfg.Clock, agentID, agentName, fqSignature, n.cfg.TokenLifetime)
	n.registry.Put(tok)
	n.issued.Add(1)
	n.metrics.RecordOp("token", "issue")
	return tok
}

// VerifyToken checks a token against the node's clock and registry.
func (n *Node) VerifyToken(tok Token) error {
	return VerifyToken(tok, n.cfg.Clock.Now(), n.registry)
}

// RevokeToken invalidates a registered token by its token string.
func (n *Node) RevokeToken(tokenString string) bool {
	return n.registry.Revoke(tokenString)
}

// Token returns the node's own sovereign token.
func (n *Node) Token() Token { return n.token }

// ────────────────────────────────────────────────────────────────────────────
// Component access
// ────────────────────────────────────────────────────────────────────────────

// Codec returns the node's PSSE codec.
func (n *Node) Codec() Codec { return n.codec }

// Ledger returns the sovereign ledger.
func (n *Node) Ledger() *Ledger { return n.ledger }

// Registry returns the token registry.
func (n *Node) Registry() *Registry { return n.registry }

// Memory returns the state-glyph memory.
func (n *Node) Memory() *Memory { return n.memory }

// Exchange returns the freedom-quanta exchange.
func (n *Node) Exchange() *Exchange { return n.exchange }

// Reflective returns the node's reflective interface.
func (n *Node) Reflective() *ReflectiveInterface { return n.ri }

// Protocol returns the internal sovereign protocol.
func (n *Node) Protocol() *Protocol { return n.protocol }

// Symbols returns the grounded-symbol library.
func (n *Node) Symbols() *Library { return n.symbols }

// ────────────────────────────────────────────────────────────────────────────
// Stats / Close
// ────────────────────────────────────────────────────────────────────────────

// Ping verifies connectivity to the configured ledger backends. Returns
// ErrClosed after Close, ErrMirrorUnavailable or ErrArchiveUnavailable when
// a backend is unreachable, and nil otherwise. Nodes without backends always
// report healthy.
func (n *Node) Ping(ctx context.Context) error {
	if n.closed.Load() {
		return ErrClosed
	}
	if n.redisClient != nil {
		if err := n.redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrMirrorUnavailable, err)
		}
	}
	if n.archive != nil {
		if err := n.archive.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveUnavailable, err)
		}
	}
	return nil
}

// Stats returns a snapshot of operational counters.
func (n *Node) Stats() Stats {
	return Stats{
		Pulses:        n.beacon.pulses.Load(),
		TokensIssued:  n.issued.Load(),
		LedgerEntries: n.ledger.Len(),
		PendingWrites: n.ledger.PendingCount(),
		RegistrySize:  n.registry.Len(),
	}
}

// Close gracefully shuts down the Node: the beacon drains, queued ledger
// writes get one final flush, and backend connections close. Idempotent.
func (n *Node) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}
	n.beacon.stop()
	n.registry.Close()
	if n.redisClient != nil {
		_ = n.redisClient.Close()
	}
	if n.archive != nil {
		n.archive.Close()
	}
	return nil
}
