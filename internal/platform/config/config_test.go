package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/credits")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.LedgerConfirmationTimeout)
	assert.Equal(t, 10*time.Minute, cfg.ApprovalLockTTL)
	assert.Equal(t, 5, cfg.ApprovalCommitAttempts)
	assert.Equal(t, "@every 5m", cfg.ReconcileSchedule)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_LockTTLMustExceedConfirmationTimeout(t *testing.T) {
	t.Setenv("LEDGER_CONFIRMATION_TIMEOUT", "5m")
	t.Setenv("APPROVAL_LOCK_TTL", "1m")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_LockTTLCoversTwoConfirmationWaits(t *testing.T) {
	t.Setenv("LEDGER_CONFIRMATION_TIMEOUT", "5m")
	t.Setenv("LEDGER_REQUEST_TIMEOUT", "10s")
	t.Setenv("APPROVAL_COMMIT_ATTEMPTS", "5")

	// longer than one wait but shorter than two
	t.Setenv("APPROVAL_LOCK_TTL", "7m")
	_, err := LoadConfig()
	assert.Error(t, err)

	// 2*5m + 6*10s + 4*2s = 11m08s
	t.Setenv("APPROVAL_LOCK_TTL", "11m")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("APPROVAL_LOCK_TTL", "12m")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 11*time.Minute+8*time.Second, cfg.ApprovalWorstCase())
}

func TestLoadConfig_RejectsBadDuration(t *testing.T) {
	t.Setenv("LEDGER_POLL_INTERVAL", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
