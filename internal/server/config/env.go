package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv. Unset or empty variables leave
// the current value alone.
const (
	envHTTPAddr          = "DIARY_HTTP_ADDR"
	envDatabaseDSN       = "DIARY_DATABASE_DSN"
	envSecretKey         = "DIARY_SECRET_KEY"
	envTokenValidity     = "DIARY_ACCESS_TOKEN_VALIDITY"
	envS3User            = "DIARY_S3_ROOT_USER"
	envS3Password        = "DIARY_S3_ROOT_PASSWORD"
	envS3Bucket          = "DIARY_S3_BUCKET"
	envS3Region          = "DIARY_S3_REGION"
	envS3Endpoint        = "DIARY_S3_BASE_ENDPOINT"
	envRedisAddr         = "DIARY_REDIS_ADDR"
	envUploadRateLimit   = "DIARY_UPLOAD_RATE_LIMIT"
	envOrphanGracePeriod = "DIARY_ORPHAN_GRACE_PERIOD"
	envCleanupClaimTTL   = "DIARY_CLEANUP_CLAIM_TTL"
	envCleanupBatch      = "DIARY_CLEANUP_QUEUE_BATCH"
	envOrphanBatch       = "DIARY_CLEANUP_ORPHAN_BATCH"
)

// parseEnv loads a .env file from the working directory when present and
// overlays DIARY_* variables. Durations use time.ParseDuration syntax.
// Malformed numbers or durations panic, like a malformed JSON file does.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.EndpointAddrHTTP, envHTTPAddr)
	setString(&config.DatabaseDSN, envDatabaseDSN)
	setString(&config.SecretKey, envSecretKey)
	setDuration(&config.AccessTokenValidityDuration, envTokenValidity)
	setString(&config.S3RootUser, envS3User)
	setString(&config.S3RootPassword, envS3Password)
	setString(&config.S3Bucket, envS3Bucket)
	setString(&config.S3Region, envS3Region)
	setString(&config.S3BaseEndpoint, envS3Endpoint)
	setString(&config.RedisAddr, envRedisAddr)
	setInt(&config.UploadRateLimit, envUploadRateLimit)
	setDuration(&config.OrphanGracePeriod, envOrphanGracePeriod)
	setDuration(&config.CleanupClaimTTL, envCleanupClaimTTL)
	setInt(&config.CleanupQueueBatch, envCleanupBatch)
	setInt(&config.CleanupOrphanBatch, envOrphanBatch)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
