package db

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

const poolTestPrefix = "db:pool_test"

func TestNewPool_InvalidURL(t *testing.T) {
	ctx := context.Background()
	pool, err := NewPool(ctx, "invalid://not-a-valid-database-url")
	if err == nil {
		if pool != nil {
			pool.Close()
		}
		t.Fatalf("%s - expected error for invalid URL", poolTestPrefix)
	}
	if pool != nil {
		t.Errorf("%s - expected nil pool on error", poolTestPrefix)
	}
}

func TestMigrationDown_WritesNotice(t *testing.T) {
	var buf bytes.Buffer
	if err := MigrationDown(context.Background(), nil, &buf); err != nil {
		t.Fatalf("%s - MigrationDown returned %v, want nil", poolTestPrefix, err)
	}
	if !strings.Contains(buf.String(), "forward-only") {
		t.Errorf("%s - unexpected notice %q", poolTestPrefix, buf.String())
	}
}
