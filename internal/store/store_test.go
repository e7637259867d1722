package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rcliao/anger-log/internal/model"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachStore runs fn against every Store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		s.now = tickingClock()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s := newTestSQLiteStore(t)
		s.now = tickingClock()
		fn(t, s)
	})
}

func sampleRecord(date, situation string) model.Record {
	return model.Record{
		Date:             date,
		Situation:        situation,
		Emotions:         []model.Emotion{{Type: "怒り", Intensity: 80}, {Type: "悲しみ", Intensity: 30}, {Type: "怒り", Intensity: 10}},
		Thoughts:         "あいつはいつも遅刻する",
		Evidence:         "今日も10分遅れた",
		CounterEvidence:  "先週は時間通りだった",
		BalancedThinking: "たまに遅れることもある",
		MoodBefore:       80,
		MoodAfter:        40,
		DetectedDistortions: []model.Finding{
			{Type: model.Labeling, Description: "d1", Suggestion: "s1"},
			{Type: model.AllOrNothing, Description: "d2", Suggestion: "s2"},
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		in := sampleRecord("2024-05-01", "会議")

		rec, err := s.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if rec.ID != 1 {
			t.Errorf("expected id 1, got %d", rec.ID)
		}
		if rec.CreatedAt.IsZero() {
			t.Error("expected createdAt to be set")
		}

		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !got.CreatedAt.Equal(rec.CreatedAt) {
			t.Errorf("createdAt changed: %v vs %v", got.CreatedAt, rec.CreatedAt)
		}
		got.CreatedAt = rec.CreatedAt
		if !reflect.DeepEqual(*got, *rec) {
			t.Errorf("stored record differs:\n got  %+v\n want %+v", *got, *rec)
		}

		in.ID, in.CreatedAt = rec.ID, rec.CreatedAt
		if !reflect.DeepEqual(*rec, in) {
			t.Errorf("record not stored verbatim:\n got  %+v\n want %+v", *rec, in)
		}
	})
}

func TestGetNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.Get(context.Background(), 42)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStoredRecordIsIsolated(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		in := sampleRecord("2024-05-01", "会議")
		rec, _ := s.Create(ctx, in)

		in.Emotions[0].Type = "changed"
		rec.DetectedDistortions[0].Type = "changed"

		got, _ := s.Get(ctx, rec.ID)
		if got.Emotions[0].Type != "怒り" {
			t.Errorf("caller input mutated stored emotions: %q", got.Emotions[0].Type)
		}
		if got.DetectedDistortions[0].Type != model.Labeling {
			t.Errorf("returned record aliases store: %q", got.DetectedDistortions[0].Type)
		}
	})
}

func TestList(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, sit := range []string{"a", "b", "c"} {
			if _, err := s.Create(ctx, sampleRecord("2024-05-01", sit)); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		page, err := s.List(ctx, ListParams{Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page) != 2 {
			t.Fatalf("expected 2, got %d", len(page))
		}
		if page[0].ID != 3 || page[1].ID != 2 {
			t.Errorf("expected ids [3 2], got [%d %d]", page[0].ID, page[1].ID)
		}

		rest, _ := s.List(ctx, ListParams{Limit: 2, Offset: 2})
		if len(rest) != 1 || rest[0].ID != 1 {
			t.Errorf("expected [1] at offset 2, got %v", ids(rest))
		}

		all, _ := s.List(ctx, ListParams{Limit: DefaultListLimit})
		if len(all) != 3 {
			t.Errorf("expected default limit to return all 3, got %d", len(all))
		}

		empty, err := s.List(ctx, ListParams{Limit: 0})
		if err != nil {
			t.Fatalf("list with zero limit: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("expected empty page for zero limit, got %v", ids(empty))
		}

		past, err := s.List(ctx, ListParams{Limit: 5, Offset: 10})
		if err != nil {
			t.Fatalf("list past end: %v", err)
		}
		if past == nil || len(past) != 0 {
			t.Errorf("expected empty page past end, got %v", past)
		}
	})
}

func TestListTiesBrokenByID(t *testing.T) {
	frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	forEachStore(t, func(t *testing.T, s Store) {
		switch st := s.(type) {
		case *MemoryStore:
			st.now = func() time.Time { return frozen }
		case *SQLiteStore:
			st.now = func() time.Time { return frozen }
		}
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			s.Create(ctx, sampleRecord("2024-05-01", "x"))
		}

		got, _ := s.List(ctx, ListParams{Limit: DefaultListLimit})
		if want := []int64{3, 2, 1}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("expected %v, got %v", want, ids(got))
		}
	})
}

func TestListByDateRange(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, d := range []string{"2024-04-30", "2024-05-01", "2024-05-03", "2024-05-05", "not-a-date", "2024-05-03x"} {
			s.Create(ctx, sampleRecord(d, d))
		}

		start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
		got, err := s.ListByDateRange(ctx, start, end)
		if err != nil {
			t.Fatalf("range: %v", err)
		}

		var dates []string
		for _, r := range got {
			dates = append(dates, r.Date)
		}
		sort.Strings(dates)
		want := []string{"2024-05-01", "2024-05-03", "2024-05-05"}
		if !reflect.DeepEqual(dates, want) {
			t.Errorf("expected %v, got %v", want, dates)
		}

		none, _ := s.ListByDateRange(ctx, end, start)
		if len(none) != 0 {
			t.Errorf("expected no records for inverted range, got %d", len(none))
		}
	})
}

func TestConcurrentCreate(t *testing.T) {
	const n = 50
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		var wg sync.WaitGroup
		got := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec, err := s.Create(ctx, sampleRecord("2024-05-01", "x"))
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				got <- rec.ID
			}()
		}
		wg.Wait()
		close(got)

		seen := map[int64]bool{}
		for id := range got {
			if seen[id] {
				t.Errorf("duplicate id %d", id)
			}
			seen[id] = true
		}
		for id := int64(1); id <= n; id++ {
			if !seen[id] {
				t.Errorf("missing id %d", id)
			}
		}
	})
}

func TestAllAndImport(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		s.Create(ctx, sampleRecord("2024-05-01", "a"))
		s.Create(ctx, sampleRecord("2024-05-02", "b"))

		all, err := s.All(ctx)
		if err != nil {
			t.Fatalf("all: %v", err)
		}
		if want := []int64{1, 2}; !reflect.DeepEqual(ids(all), want) {
			t.Errorf("expected %v, got %v", want, ids(all))
		}

		dst := NewMemoryStore()
		n, err := Import(ctx, dst, all)
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 imported, got %d", n)
		}
		copied, _ := dst.Get(ctx, 2)
		if copied.Situation != "b" || len(copied.DetectedDistortions) != 2 {
			t.Errorf("import lost fields: %+v", copied)
		}
	})
}

func ids(records []model.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
