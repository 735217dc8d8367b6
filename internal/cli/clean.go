package cli

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/njchilds90/htmlwhitelist"
	"github.com/njchilds90/htmlwhitelist/internal/config"
)

var (
	cleanRules     string
	cleanExtended  string
	cleanLinkRel   string
	cleanNoLinkRel bool
	cleanMarkdown  bool
	cleanInclude   string
	cleanOutDir    string
	cleanWrite     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path ...]",
	Short: "Sanitise HTML from files, directories, or stdin",
	Long: `Clean sanitises HTML against the configured whitelist.

With no arguments it reads stdin and writes the sanitised document to
stdout. File arguments are sanitised one by one; directory arguments
are walked and every file matching the include pattern is sanitised.
Results go to stdout unless --out-dir or --write is given.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanRules, "rules", "", "base whitelist rules (defaults to the built-in preset)")
	cleanCmd.Flags().StringVar(&cleanExtended, "extended-rules", "", "second rule pass compiled on top of the base rules")
	cleanCmd.Flags().StringVar(&cleanLinkRel, "link-rel", "", "rel value for anchors carrying a target")
	cleanCmd.Flags().BoolVar(&cleanNoLinkRel, "no-link-rel", false, "disable the link-rel policy")
	cleanCmd.Flags().BoolVar(&cleanMarkdown, "markdown", false, "render input as Markdown before sanitising")
	cleanCmd.Flags().StringVar(&cleanInclude, "include", "", "glob pattern selecting files inside directories")
	cleanCmd.Flags().StringVarP(&cleanOutDir, "out-dir", "o", "", "write sanitised files into this directory")
	cleanCmd.Flags().BoolVarP(&cleanWrite, "write", "w", false, "rewrite input files in place")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCleanOverrides(cmd, cfg)

	if cleanWrite && cfg.OutDir != "" {
		return fmt.Errorf("--write and --out-dir are mutually exclusive")
	}

	s := cfg.Sanitizer()

	if len(args) == 0 {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		out, err := cleanBytes(s, raw, cfg.Markdown)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	matcher, err := cfg.IncludeMatcher()
	if err != nil {
		return err
	}
	files, err := collectFiles(args, matcher)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Str("include", cfg.Include).Msg("No files matched")
		return nil
	}

	for _, f := range files {
		if err := cleanFile(cmd, s, cfg, f); err != nil {
			return err
		}
	}
	return nil
}

// applyCleanOverrides copies explicitly set flags over the loaded
// configuration, so flags beat the config file and environment.
func applyCleanOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("rules") {
		cfg.Rules.Base = cleanRules
	}
	if cmd.Flags().Changed("extended-rules") {
		cfg.Rules.Extended = cleanExtended
	}
	if cmd.Flags().Changed("link-rel") {
		cfg.LinkRel = cleanLinkRel
	}
	if cmd.Flags().Changed("no-link-rel") {
		cfg.NoLinkRel = cleanNoLinkRel
	}
	if cmd.Flags().Changed("markdown") {
		cfg.Markdown = cleanMarkdown
	}
	if cmd.Flags().Changed("include") {
		cfg.Include = cleanInclude
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = cleanOutDir
	}
}

// fileEntry pairs an input path with the relative path used to build
// its destination under the output directory.
type fileEntry struct {
	path string
	rel  string
}

// collectFiles expands the path arguments: files are taken as given,
// directories are walked and filtered through the include pattern.
func collectFiles(args []string, matcher glob.Glob) ([]fileEntry, error) {
	var files []fileEntry
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, fileEntry{path: arg, rel: filepath.Base(arg)})
			continue
		}
		root := arg
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if matcher.Match(filepath.ToSlash(rel)) {
				files = append(files, fileEntry{path: path, rel: rel})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func cleanFile(cmd *cobra.Command, s *htmlwhitelist.Sanitizer, cfg *config.Config, f fileEntry) error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	out, err := cleanBytes(s, raw, cfg.Markdown)
	if err != nil {
		return fmt.Errorf("%s: %w", f.path, err)
	}

	switch {
	case cleanWrite:
		if err := os.WriteFile(f.path, []byte(out), 0o644); err != nil {
			return err
		}
		log.Info().Str("file", f.path).Msg("Sanitised in place")
	case cfg.OutDir != "":
		target := filepath.Join(cfg.OutDir, f.rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
			return err
		}
		log.Info().Str("file", f.path).Str("target", target).Msg("Sanitised")
	default:
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

// cleanBytes runs one document through the sanitiser, optionally
// rendering Markdown first.
func cleanBytes(s *htmlwhitelist.Sanitizer, raw []byte, markdown bool) (string, error) {
	if markdown {
		rendered, err := renderMarkdown(raw)
		if err != nil {
			return "", fmt.Errorf("rendering markdown: %w", err)
		}
		raw = rendered
	}
	return s.SanitizeReader(bytes.NewReader(raw))
}

// renderMarkdown converts Markdown to HTML. The result still goes
// through the whitelist like any other input.
func renderMarkdown(src []byte) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM), goldmark.WithRendererOptions(html.WithHardWraps()))
	buf := bytes.NewBuffer(make([]byte, 0, len(src)*2))
	if err := md.Convert(src, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
