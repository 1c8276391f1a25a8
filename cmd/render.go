package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/learnova/internal/assistant"
	"github.com/ziadkadry99/learnova/internal/progress"
)

var (
	renderEngine string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render [glob...]",
	Short: "Render Markdown files to answer HTML",
	Long: `Renders Markdown files with the answer renderer. Patterns support ** globs.
Without --out the HTML of each file is printed to stdout; with --out one
.html file per input is written, mirroring the input paths.`,
	Example: `  learnova render notes/**/*.md --out site
  learnova render answer.md --engine commonmark`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := newAssistantWith(nil, cfg)
		if err != nil {
			return err
		}

		files, err := expandGlobs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files match %s", strings.Join(args, " "))
		}

		if renderOut == "" {
			for _, f := range files {
				html, err := renderFile(svc, f)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), html)
			}
			return nil
		}
		return renderToDir(cmd, svc, files)
	},
}

// expandGlobs resolves patterns to a sorted, de-duplicated file list.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func renderFile(svc *assistant.Service, path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	html, err := svc.RenderWith(renderEngine, string(src))
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", path, err)
	}
	return html, nil
}

func renderToDir(cmd *cobra.Command, svc *assistant.Service, files []string) error {
	rep := progress.NewReporter(cmd.ErrOrStderr())
	rep.Start(len(files), "Rendering")
	defer rep.Finish()

	var (
		mu   sync.Mutex
		done int
	)
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for _, f := range files {
		g.Go(func() error {
			html, err := renderFile(svc, f)
			if err != nil {
				return err
			}
			dst := filepath.Join(renderOut, strings.TrimSuffix(f, filepath.Ext(f))+".html")
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(dst, []byte(html), 0o644); err != nil {
				return err
			}
			logger.Debug("rendered", zap.String("src", f), zap.String("dst", dst))

			mu.Lock()
			done++
			rep.Update(done, f)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func init() {
	renderCmd.Flags().StringVar(&renderEngine, "engine", "", "renderer: legacy or commonmark (default from config)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output directory")
	rootCmd.AddCommand(renderCmd)
}
