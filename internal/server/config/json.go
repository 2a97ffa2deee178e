package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophdiary/internal/flagx"
	"github.com/dmitrijs2005/gophdiary/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Duration fields
// accept "24h"-style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	RedisAddr                   string         `json:"redis_addr"`
	UploadRateLimit             int            `json:"upload_rate_limit"`
	OrphanGracePeriod           timex.Duration `json:"orphan_grace_period"`
	CleanupClaimTTL             timex.Duration `json:"cleanup_claim_ttl"`
	CleanupQueueBatch           int            `json:"cleanup_queue_batch"`
	CleanupOrphanBatch          int            `json:"cleanup_orphan_batch"`
}

// parseJson overlays values from the file named by -c / -config in args.
// Without the flag nothing is loaded. Only keys present with a non-zero
// value override the current settings. An unreadable file or invalid JSON
// panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overrideString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overrideString(&config.DatabaseDSN, c.DatabaseDSN)
	overrideString(&config.SecretKey, c.SecretKey)
	overrideString(&config.S3RootUser, c.S3RootUser)
	overrideString(&config.S3RootPassword, c.S3RootPassword)
	overrideString(&config.S3Bucket, c.S3Bucket)
	overrideString(&config.S3Region, c.S3Region)
	overrideString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overrideString(&config.RedisAddr, c.RedisAddr)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.OrphanGracePeriod.Duration != 0 {
		config.OrphanGracePeriod = c.OrphanGracePeriod.Duration
	}
	if c.CleanupClaimTTL.Duration != 0 {
		config.CleanupClaimTTL = c.CleanupClaimTTL.Duration
	}
	if c.UploadRateLimit != 0 {
		config.UploadRateLimit = c.UploadRateLimit
	}
	if c.CleanupQueueBatch != 0 {
		config.CleanupQueueBatch = c.CleanupQueueBatch
	}
	if c.CleanupOrphanBatch != 0 {
		config.CleanupOrphanBatch = c.CleanupOrphanBatch
	}
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
