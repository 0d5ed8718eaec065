package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/transposon/internal/genome"
)

// NewGenome creates a genome or fails the test.
func NewGenome(t testing.TB, kind genome.Kind, n int, opts ...genome.Option) genome.Genome {
	t.Helper()
	g, err := genome.New(kind, n, opts...)
	require.NoError(t, err)
	return g
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
