package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCollectorTiming(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpListDocs, 100*time.Millisecond)
	c.RecordTiming(OpListDocs, 300*time.Millisecond)

	snap := c.Snapshot()
	op, ok := snap.Ops[OpListDocs]
	if !ok {
		t.Fatal("expected list_docs snapshot")
	}
	if op.Count != 2 {
		t.Errorf("Count = %d, want 2", op.Count)
	}
	if op.MinTimeMs != 100 || op.MaxTimeMs != 300 {
		t.Errorf("Min/Max = %d/%d, want 100/300", op.MinTimeMs, op.MaxTimeMs)
	}
	if op.AvgTimeMs != 200 {
		t.Errorf("AvgTimeMs = %v, want 200", op.AvgTimeMs)
	}
}

func TestCollectorChatUsage(t *testing.T) {
	c := NewCollector()
	c.RecordChatUsage(OpChat, 50*time.Millisecond, 120, 80)
	c.RecordChatUsage(OpChat, 70*time.Millisecond, 30, 20)

	snap := c.Snapshot()
	op := snap.Ops[OpChat]
	if op.TotalPromptTokens != 150 || op.TotalCompletionTokens != 100 {
		t.Errorf("tokens = %d/%d, want 150/100", op.TotalPromptTokens, op.TotalCompletionTokens)
	}
	if got := snap.TotalTokens(); got != 250 {
		t.Errorf("TotalTokens() = %d, want 250", got)
	}
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordTiming(OpTranslate, time.Millisecond)
			_ = c.Snapshot()
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Ops[OpTranslate].Count; got != 20 {
		t.Errorf("Count = %d, want 20", got)
	}
}

func TestSnapshotSkipsEmptyOps(t *testing.T) {
	c := NewCollector()
	if len(c.Snapshot().Ops) != 0 {
		t.Error("fresh collector should have no op snapshots")
	}
}
