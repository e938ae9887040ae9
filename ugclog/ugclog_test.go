package ugclog_test

import (
	"testing"

	"github.com/tangzhangming/ugc/gc"
	"github.com/tangzhangming/ugc/ugclog"
)

// compile-time check: *ugclog.Logger must satisfy gc.Logger.
var _ gc.Logger = (*ugclog.Logger)(nil)

func TestNewProducesUsableLogger(t *testing.T) {
	l := ugclog.New(true)
	l.Debugf("cycle %d complete", 1)
	l.Warnf("unexpected state %s", "mark")
	if err := l.Sync(); err != nil {
		// zap's Sync commonly fails on stdout/stderr under test runners
		// (ENOTTY/invalid argument), so any Sync error is logged, not
		// treated as a failure.
		t.Logf("Sync: %v", err)
	}
}

func TestNewFromEnvDoesNotPanic(t *testing.T) {
	t.Setenv("UGC_DEBUG", "1")
	l := ugclog.NewFromEnv()
	l.Debugf("debug enabled")
}
