// Package modeltest provides a repository backed by a private in-memory
// sqlite database for tests.
package modeltest

import (
	"fmt"
	"regexp"
	"storerating/internal/config"
	"storerating/internal/model"
	"sync/atomic"
	"testing"
)

var (
	counter  atomic.Uint64
	unsafeCh = regexp.MustCompile(`[^A-Za-z0-9_]+`)
)

// NewRepository returns a migrated repository that no other test shares.
func NewRepository(t testing.TB) model.Repository {
	t.Helper()
	name := unsafeCh.ReplaceAllString(t.Name(), "_")
	cfg := &config.Config{
		DBType: model.DBTypeSQLite,
		DBPath: fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, counter.Add(1)),
	}
	repo, err := model.InitRepository(cfg)
	if err != nil {
		t.Fatalf("failed to open test repository: %v", err)
	}
	return repo
}
