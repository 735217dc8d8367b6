package cli

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/njchilds90/htmlwhitelist"
	"github.com/njchilds90/htmlwhitelist/internal/config"
)

var (
	watchRules    string
	watchExtended string
	watchMarkdown bool
	watchInclude  string
	watchOutDir   string
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir ...>",
	Short: "Watch directories and sanitise files as they change",
	Long: `Watch sanitises every matching file under the given directories,
then keeps re-sanitising files as they are created or written.

Results always go to --out-dir: writing in place would re-trigger the
watcher. Events for files inside the output directory are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchRules, "rules", "", "base whitelist rules (defaults to the built-in preset)")
	watchCmd.Flags().StringVar(&watchExtended, "extended-rules", "", "second rule pass compiled on top of the base rules")
	watchCmd.Flags().BoolVar(&watchMarkdown, "markdown", false, "render input as Markdown before sanitising")
	watchCmd.Flags().StringVar(&watchInclude, "include", "", "glob pattern selecting files to watch")
	watchCmd.Flags().StringVarP(&watchOutDir, "out-dir", "o", "", "write sanitised files into this directory (required)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyWatchOverrides(cmd, cfg)

	if cfg.OutDir == "" {
		return fmt.Errorf("watch requires --out-dir")
	}

	matcher, err := cfg.IncludeMatcher()
	if err != nil {
		return err
	}
	outAbs, err := filepath.Abs(cfg.OutDir)
	if err != nil {
		return err
	}

	w := &dirWatcher{
		sanitizer: cfg.Sanitizer(),
		cfg:       cfg,
		matcher:   matcher,
		roots:     args,
		outDir:    outAbs,
		pending:   make(map[string]*time.Timer),
	}
	return w.run()
}

func applyWatchOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("rules") {
		cfg.Rules.Base = watchRules
	}
	if cmd.Flags().Changed("extended-rules") {
		cfg.Rules.Extended = watchExtended
	}
	if cmd.Flags().Changed("markdown") {
		cfg.Markdown = watchMarkdown
	}
	if cmd.Flags().Changed("include") {
		cfg.Include = watchInclude
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = watchOutDir
	}
}

// dirWatcher re-sanitises files under its roots as they change.
type dirWatcher struct {
	sanitizer *htmlwhitelist.Sanitizer
	cfg       *config.Config
	matcher   glob.Glob
	roots     []string
	outDir    string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func (w *dirWatcher) run() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range w.roots {
		if err := addDirs(watcher, root); err != nil {
			return err
		}
	}

	// Initial pass so the output directory starts in sync.
	files, err := collectFiles(w.roots, w.matcher)
	if err != nil {
		return err
	}
	for _, f := range files {
		w.sanitise(f)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Strs("roots", w.roots).Str("out", w.cfg.OutDir).Msg("Watching")

	for {
		select {
		case <-sig:
			log.Info().Msg("Shutdown signal received")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *dirWatcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if abs, err := filepath.Abs(event.Name); err == nil &&
		(abs == w.outDir || strings.HasPrefix(abs, w.outDir+string(filepath.Separator))) {
		return
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := addDirs(watcher, event.Name); err != nil {
				log.Warn().Err(err).Str("dir", event.Name).Msg("Cannot watch new directory")
			}
		}
		return
	}

	f, ok := w.resolve(event.Name)
	if !ok {
		return
	}
	w.debounce(f)
}

// resolve maps an event path back to the root it lives under and the
// relative path used for output.
func (w *dirWatcher) resolve(path string) (fileEntry, bool) {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if w.matcher.Match(filepath.ToSlash(rel)) {
			return fileEntry{path: path, rel: rel}, true
		}
	}
	return fileEntry{}, false
}

// debounce coalesces rapid events for the same file.
func (w *dirWatcher) debounce(f fileEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[f.path]; exists {
		timer.Stop()
	}
	w.pending[f.path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, f.path)
		w.mu.Unlock()
		w.sanitise(f)
	})
}

// sanitise cleans a single file into the output directory. Errors are
// logged, not returned: one bad file must not stop the watcher.
func (w *dirWatcher) sanitise(f fileEntry) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		log.Error().Err(err).Str("file", f.path).Msg("Cannot read file")
		return
	}
	out, err := cleanBytes(w.sanitizer, raw, w.cfg.Markdown)
	if err != nil {
		log.Error().Err(err).Str("file", f.path).Msg("Sanitising failed")
		return
	}
	target := filepath.Join(w.cfg.OutDir, f.rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		log.Error().Err(err).Str("target", target).Msg("Cannot create output directory")
		return
	}
	if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
		log.Error().Err(err).Str("target", target).Msg("Cannot write file")
		return
	}
	log.Info().Str("file", f.path).Str("target", target).Msg("Sanitised")
}

// addDirs registers root and every directory below it. fsnotify
// watches are not recursive.
func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
