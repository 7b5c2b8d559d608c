package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/target/accessjobs/config"
	"github.com/target/accessjobs/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens the Postgres pool through the pgx stdlib bridge and pings it.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DBConfig.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	db := stdlib.OpenDB(*connCfg)
	configurePool(db, cfg.DBConfig)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
			"max_open_conns", cfg.DBConfig.MaxOpenConns,
		)
	}

	return db, nil
}

// configurePool sizes the pool. Each in-flight work item holds its own connection
// for the length of one write.
func configurePool(db *sql.DB, cfg config.DBConfig) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(5, maxOpen))
	db.SetConnMaxLifetime(5 * time.Minute)
}

// redisTopology names how the Redis client reaches the server.
type redisTopology string

const (
	redisDirect   redisTopology = "direct"
	redisSentinel redisTopology = "sentinel"
	redisCluster  redisTopology = "cluster"
)

// ConnectRedis builds a client for the configured topology and pings it.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	topology, opts, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := newRedisClient(topology, opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected",
			"topology", topology,
			"addrs", strings.Join(opts.Addrs, ","),
		)
	}

	return client, nil
}

// redisOptions resolves RedisConfig into universal options. REDIS_URI may be a bare
// host:port or a redis:// / rediss:// URL; explicit node lists win over it.
func redisOptions(cfg config.RedisConfig) (redisTopology, *redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{Password: cfg.Password}
	if err := applyRedisURI(opts, cfg.URI); err != nil {
		return "", nil, err
	}

	switch {
	case cfg.UseCluster:
		if nodes := normalizeAddrs(cfg.ClusterNodes); len(nodes) > 0 {
			opts.Addrs = nodes
		}
		if len(opts.Addrs) == 0 {
			return "", nil, errors.New("redis cluster configuration requires at least one address")
		}
		opts.DB = 0
		return redisCluster, opts, nil

	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return "", nil, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		opts.Addrs = nodes
		opts.MasterName = cfg.SentinelMasterName
		opts.SentinelPassword = cfg.SentinelPassword
		return redisSentinel, opts, nil

	default:
		if len(opts.Addrs) == 0 {
			return "", nil, errors.New("redis direct configuration requires a URI")
		}
		return redisDirect, opts, nil
	}
}

func applyRedisURI(opts *redis.UniversalOptions, uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	return nil
}

//nolint:ireturn // see ConnectRedis.
func newRedisClient(topology redisTopology, opts *redis.UniversalOptions) redis.UniversalClient {
	switch topology {
	case redisCluster:
		return redis.NewClusterClient(opts.Cluster())
	case redisSentinel:
		return redis.NewFailoverClient(opts.Failover())
	default:
		return redis.NewClient(opts.Simple())
	}
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		version, err := migrate.Version(ctx, db)
		if err != nil {
			logger.WarnContext(ctx, "read migration version failed", "error", err)
		}
		logger.InfoContext(ctx, "database migrations completed", "version", version)
	}

	return nil
}
