package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ancientlore/mdsite/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func TestRunDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "# Readme\n\nSee [API](API_REFERENCE.md).\n")

	err := run(context.Background(), options{src: dir, config: "site.toml"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "docs_html", "README.html"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `href="API_REFERENCE.html"`)
	assert.FileExists(t, filepath.Join(dir, "docs_html", "index.html"))
	assert.NoFileExists(t, filepath.Join(dir, "docs_html", "QUICK_START.html"))
}

func TestRunOverrides(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "site")
	writeFile(t, filepath.Join(dir, "README.md"), "# Readme\n")
	writeFile(t, filepath.Join(dir, "docs.toml"), "files = [\"README.md\"]\n")

	err := run(context.Background(), options{src: dir, config: "docs.toml", out: out, engine: "blackfriday"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "README.html"))
	assert.NoDirExists(t, filepath.Join(dir, "docs_html"))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "site.toml"), "colour = \"red\"\n")
	err := run(context.Background(), options{src: dir, config: "site.toml"}, zaptest.NewLogger(t))
	assert.Error(t, err)

	err = run(context.Background(), options{src: t.TempDir(), config: "site.toml", engine: "pandoc"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestRunWatchStops(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "# One\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, options{src: dir, config: "site.toml", watch: true}, zaptest.NewLogger(t)) }()

	out := filepath.Join(dir, "docs_html", "README.html")
	require.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	// the watcher starts after the first build, so keep touching the file
	require.Eventually(t, func() bool {
		b, err := os.ReadFile(out)
		if err == nil && strings.Contains(string(b), "<h1>Two</h1>") {
			return true
		}
		os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Two\n"), 0o644)
		return false
	}, 10*time.Second, time.Second)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestOutputDir(t *testing.T) {
	cfg := site.DefaultConfig()
	assert.Equal(t, filepath.Join("docs", "docs_html"), outputDir(options{src: "docs"}, cfg))
	assert.Equal(t, "build", outputDir(options{src: "docs", out: "build"}, cfg))
	cfg.Output = filepath.Join(string(filepath.Separator), "tmp", "site")
	assert.Equal(t, cfg.Output, outputDir(options{src: "docs"}, cfg))
}
