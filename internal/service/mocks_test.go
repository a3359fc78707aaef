package service

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// fakeSnapshotStore is an in-memory SnapshotStore with injectable failures.
type fakeSnapshotStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	gets   int
	sets   int
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{data: make(map[string][]byte)}
}

func (f *fakeSnapshotStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, store.ErrSnapshotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (f *fakeSnapshotStore) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeSnapshotStore) put(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
}

func (f *fakeSnapshotStore) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// staticReference serves a fixed corpus as the reference.
type staticReference domain.Corpus

func (r staticReference) Corpus() domain.Corpus {
	return domain.Corpus(r).Clone()
}

// countingLoader counts Load calls against a wrapped loader.
type countingLoader struct {
	mu    sync.Mutex
	inner CorpusLoader
	calls int
}

func (l *countingLoader) Load(ctx context.Context) domain.Corpus {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.inner.Load(ctx)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

const testKey = "oxford3000"

func testReference() staticReference {
	return staticReference{
		{Word: "abandon", Pronunciation: "/əˈbændən/", Meaning: "to leave behind", Example: "They abandoned the car."},
		{Word: "ability", Pronunciation: "/əˈbɪləti/", Meaning: "the power to do something", Example: "She has the ability to win."},
		{Word: "able", Pronunciation: "/ˈeɪbl/", Meaning: "having the power to do something", Example: "He was able to swim."},
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
