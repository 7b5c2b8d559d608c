package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/accessjobs/config"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.RedisConfig
		wantTopology redisTopology
		wantAddrs    []string
		wantErr      string
	}{
		{
			name:         "bare host port",
			cfg:          config.RedisConfig{URI: "cache:6379", Password: "secret"},
			wantTopology: redisDirect,
			wantAddrs:    []string{"cache:6379"},
		},
		{
			name:         "url carries credentials and db",
			cfg:          config.RedisConfig{URI: "redis://user:pw@cache:6380/2"},
			wantTopology: redisDirect,
			wantAddrs:    []string{"cache:6380"},
		},
		{
			name:    "direct without uri",
			cfg:     config.RedisConfig{},
			wantErr: "requires a URI",
		},
		{
			name: "sentinel nodes replace the uri",
			cfg: config.RedisConfig{
				URI:                "localhost:6379",
				UseSentinel:        true,
				SentinelNodes:      []string{" s1:26379 ", "", "s2:26379"},
				SentinelMasterName: "primary",
			},
			wantTopology: redisSentinel,
			wantAddrs:    []string{"s1:26379", "s2:26379"},
		},
		{
			name:    "sentinel without nodes",
			cfg:     config.RedisConfig{UseSentinel: true},
			wantErr: "at least one sentinel node",
		},
		{
			name:         "cluster falls back to the uri",
			cfg:          config.RedisConfig{URI: "redis://c1:7000/3", UseCluster: true},
			wantTopology: redisCluster,
			wantAddrs:    []string{"c1:7000"},
		},
		{
			name:         "cluster nodes win",
			cfg:          config.RedisConfig{URI: "c1:7000", UseCluster: true, ClusterNodes: []string{"c2:7000", "c3:7000"}},
			wantTopology: redisCluster,
			wantAddrs:    []string{"c2:7000", "c3:7000"},
		},
		{
			name:    "cluster without any address",
			cfg:     config.RedisConfig{UseCluster: true},
			wantErr: "at least one address",
		},
		{
			name:    "malformed url",
			cfg:     config.RedisConfig{URI: "redis://cache:notaport"},
			wantErr: "parse redis url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topology, opts, err := redisOptions(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopology, topology)
			assert.Equal(t, tt.wantAddrs, opts.Addrs)
		})
	}
}

func TestRedisOptions_URLFields(t *testing.T) {
	_, opts, err := redisOptions(config.RedisConfig{URI: "rediss://user:pw@cache:6380/2", Password: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "user", opts.Username)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.NotNil(t, opts.TLSConfig)
}

func TestRedisOptions_ClusterResetsDB(t *testing.T) {
	_, opts, err := redisOptions(config.RedisConfig{URI: "redis://c1:7000/3", UseCluster: true})
	require.NoError(t, err)
	assert.Zero(t, opts.DB)
}
