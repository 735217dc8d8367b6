package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njchilds90/htmlwhitelist/internal/config"
)

func TestDirWatcherResolve(t *testing.T) {
	matcher, err := config.Default().IncludeMatcher()
	require.NoError(t, err)

	w := &dirWatcher{
		matcher: matcher,
		roots:   []string{"site"},
	}

	f, ok := w.resolve(filepath.Join("site", "a", "page.html"))
	require.True(t, ok)
	require.Equal(t, filepath.Join("a", "page.html"), f.rel)

	_, ok = w.resolve(filepath.Join("elsewhere", "page.html"))
	require.False(t, ok, "paths outside every root must not resolve")

	_, ok = w.resolve(filepath.Join("site", "notes.txt"))
	require.False(t, ok, "paths failing the include pattern must not resolve")
}

func TestApplyWatchOverrides(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, watchCmd.Flags().Set("rules", "p,b"))
	require.NoError(t, watchCmd.Flags().Set("out-dir", "out"))
	applyWatchOverrides(watchCmd, cfg)

	require.Equal(t, "p,b", cfg.Rules.Base)
	require.Equal(t, "out", cfg.OutDir)
	require.Equal(t, config.DefaultInclude, cfg.Include)
}
