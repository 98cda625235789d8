package hermes

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// subjectMatches implements NATS wildcard matching for '*' and a trailing '>'.
func subjectMatches(pattern, subject string) bool {
	p := strings.Split(pattern, ".")
	s := strings.Split(subject, ".")
	for i, tok := range p {
		if tok == ">" {
			return len(s) > i
		}
		if i >= len(s) || (tok != "*" && tok != s[i]) {
			return false
		}
	}
	return len(p) == len(s)
}

func TestStreamConfig(t *testing.T) {
	cfg := streamConfig()

	assert.Equal(t, "WORTHIT_EVENTS", cfg.Name)
	assert.Equal(t, 30*24*time.Hour, cfg.MaxAge)
	assert.Equal(t, StreamSubjects, cfg.Subjects)
	assert.Equal(t, jetstream.LimitsPolicy, cfg.Retention)
	assert.Equal(t, jetstream.FileStorage, cfg.Storage)

	// The config owns its subject list.
	cfg.Subjects[0] = "other.>"
	assert.Equal(t, "worthit.decision.>", StreamSubjects[0])
}

func TestStreamCapturesEverySubject(t *testing.T) {
	subjects := []string{
		SubjectDecisionRequest,
		SubjectDecisionComputed,
		SubjectHistoryImported,
		SubjectHistorySaved("e-1"),
		SubjectHistoryDeleted("e-1"),
	}
	for _, subject := range subjects {
		captured := false
		for _, pattern := range StreamSubjects {
			if subjectMatches(pattern, subject) {
				captured = true
			}
		}
		assert.True(t, captured, subject)
	}
}

func TestHistorySubjects(t *testing.T) {
	assert.Equal(t, "worthit.history.abc.saved", SubjectHistorySaved("abc"))
	assert.Equal(t, "worthit.history.abc.deleted", SubjectHistoryDeleted("abc"))
	assert.True(t, subjectMatches("worthit.history.*.saved", SubjectHistorySaved("abc")))
	assert.False(t, subjectMatches("worthit.history.*.saved", SubjectHistoryImported))
}

func TestConnectOptions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := nats.GetDefaultOptions()
	for _, o := range connectOptions(logger) {
		require.NoError(t, o(&opts))
	}

	assert.Equal(t, "worthit", opts.Name)
	assert.True(t, opts.RetryOnFailedConnect)
	assert.Equal(t, 60, opts.MaxReconnect)
	assert.Equal(t, 2*time.Second, opts.ReconnectWait)
	assert.NotNil(t, opts.DisconnectedErrCB)
	assert.NotNil(t, opts.ReconnectedCB)
}
