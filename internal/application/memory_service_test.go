package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/agent-cli/internal/adapters/repo/jsonfile"
	"github.com/bnema/agent-cli/internal/adapters/repo/jsonl"
	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/ports/mocks"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type memoryFixture struct {
	service    *MemoryService
	summarizer *mocks.MockSummarizer
	log        *jsonl.Log
	repo       *jsonfile.Repository
}

func newMemoryFixture(t *testing.T, policy domain.MemoryPolicy) memoryFixture {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "memory")
	log, err := jsonl.NewLog(dir, jsonl.Options{})
	require.NoError(t, err)
	repo, err := jsonfile.NewRepository(dir)
	require.NoError(t, err)

	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(fixedNow).Maybe()
	summarizer := mocks.NewMockSummarizer(t)

	return memoryFixture{
		service:    NewMemoryService(log, repo, summarizer, clock, policy, nil),
		summarizer: summarizer,
		log:        log,
		repo:       repo,
	}
}

func appendEntries(t *testing.T, service *MemoryService, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		require.NoError(t, service.Append(context.Background(), role, fmt.Sprintf("message %d", i)))
	}
}

func TestMemoryServiceAppendThenLoadPreservesOrder(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 100, KeepRecent: 10})
	appendEntries(t, fixture.service, 5)

	entries, err := fixture.service.Conversation(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("message %d", i), entry.Content)
		assert.Equal(t, fixedNow, entry.Timestamp)
	}
	assert.Equal(t, domain.RoleUser, entries[0].Role)
	assert.Equal(t, domain.RoleAssistant, entries[1].Role)
}

func TestMemoryServiceCompactsToKeepRecent(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 6, KeepRecent: 2})
	appendEntries(t, fixture.service, 6)

	fixture.summarizer.EXPECT().
		Summarize(mock.Anything, mock.MatchedBy(func(entries []domain.ConversationEntry) bool {
			return len(entries) == 4 && entries[0].Content == "message 0" && entries[3].Content == "message 3"
		})).
		Return("The user sent four messages.", nil).
		Once()

	should, err := fixture.service.ShouldCompact(context.Background())
	require.NoError(t, err)
	require.True(t, should)

	result, err := fixture.service.CompactIfNeeded(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CompactionResult{Compacted: true, Summarized: 4, Kept: 2}, result)

	entries, err := fixture.service.Conversation(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "message 4", entries[0].Content)
	assert.Equal(t, "message 5", entries[1].Content)

	record, err := fixture.service.Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The user sent four messages.", record.Summary)
	assert.Equal(t, fixedNow, record.UpdatedAt)

	should, err = fixture.service.ShouldCompact(context.Background())
	require.NoError(t, err)
	assert.False(t, should)
}

func TestMemoryServiceMergesWithPriorSummary(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 4, KeepRecent: 1})
	require.NoError(t, fixture.repo.Save(context.Background(), domain.MemoryRecord{
		Summary: "Earlier summary.",
		Facts:   []domain.Fact{{Key: "k", Value: "v"}},
	}))
	appendEntries(t, fixture.service, 4)

	fixture.summarizer.EXPECT().Summarize(mock.Anything, mock.Anything).Return("Newer summary.", nil).Once()

	_, err := fixture.service.CompactIfNeeded(context.Background())
	require.NoError(t, err)

	record, err := fixture.service.Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Earlier summary.\nNewer summary.", record.Summary)
	assert.Equal(t, []domain.Fact{{Key: "k", Value: "v"}}, record.Facts)
}

func TestMemoryServiceCompactionKeepsSummaryBesideUntypedFacts(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 4, KeepRecent: 1})
	require.NoError(t, os.MkdirAll(filepath.Dir(fixture.repo.Path()), 0o755))
	require.NoError(t, os.WriteFile(fixture.repo.Path(),
		[]byte(`{"summary":"Earlier summary.","facts":[{"key":"age","value":42}],"todos":[]}`), 0o644))
	appendEntries(t, fixture.service, 4)

	fixture.summarizer.EXPECT().Summarize(mock.Anything, mock.Anything).Return("Newer summary.", nil).Once()

	_, err := fixture.service.CompactIfNeeded(context.Background())
	require.NoError(t, err)

	record, err := fixture.service.Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Earlier summary.\nNewer summary.", record.Summary)
	require.Len(t, record.Facts, 1)
	assert.Equal(t, "42", record.Facts[0].Value)
	assert.JSONEq(t, `{"key":"age","value":42}`, string(record.Facts[0].Payload))
}

func TestMemoryServiceCompactIfNeededIsNoOpBelowThreshold(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 10, MaxBytes: 1 << 20, KeepRecent: 2})
	appendEntries(t, fixture.service, 3)

	before, err := os.ReadFile(fixture.log.Path())
	require.NoError(t, err)

	result, err := fixture.service.CompactIfNeeded(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Compacted)

	after, err := os.ReadFile(fixture.log.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = os.Stat(fixture.repo.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryServiceSkipsWhenEntriesFitInKeepRecent(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 2, KeepRecent: 5})
	appendEntries(t, fixture.service, 3)

	result, err := fixture.service.CompactIfNeeded(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CompactionResult{Kept: 3}, result)

	entries, err := fixture.service.Conversation(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestMemoryServiceUsesPlaceholderWhenSummarizerFails(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 3, KeepRecent: 1})
	appendEntries(t, fixture.service, 3)

	fixture.summarizer.EXPECT().Summarize(mock.Anything, mock.Anything).Return("", errors.New("upstream down")).Once()

	result, err := fixture.service.CompactIfNeeded(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Compacted)
	assert.True(t, result.Fallback)

	record, err := fixture.service.Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CompactionPlaceholder, record.Summary)

	entries, err := fixture.service.Conversation(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemoryServiceForcedCompactIgnoresTrigger(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 100, KeepRecent: 1})
	appendEntries(t, fixture.service, 3)

	fixture.summarizer.EXPECT().Summarize(mock.Anything, mock.Anything).Return("Forced.", nil).Once()

	result, err := fixture.service.Compact(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summarized)
	assert.Equal(t, 1, result.Kept)
}

func TestMemoryServiceCanceledSummaryLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{MaxMessages: 3, KeepRecent: 1})
	appendEntries(t, fixture.service, 3)

	ctx, cancel := context.WithCancel(context.Background())
	fixture.summarizer.EXPECT().Summarize(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, []domain.ConversationEntry) (string, error) {
			cancel()
			return "", context.Canceled
		}).
		Once()

	_, err := fixture.service.CompactIfNeeded(ctx)
	require.ErrorIs(t, err, context.Canceled)

	entries, err := fixture.service.Conversation(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestMemoryServiceConcurrentAppends(t *testing.T) {
	t.Parallel()

	fixture := newMemoryFixture(t, domain.MemoryPolicy{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, fixture.service.AppendTurn(context.Background(), fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
		}()
	}
	wg.Wait()

	entries, err := fixture.service.Conversation(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 40)
	for i := 0; i < len(entries); i += 2 {
		assert.Equal(t, domain.RoleUser, entries[i].Role)
		assert.Equal(t, domain.RoleAssistant, entries[i+1].Role)
		assert.Equal(t, entries[i].Content[1:], entries[i+1].Content[1:])
	}
}
