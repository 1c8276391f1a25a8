package cmd

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnova/internal/assistant"
	"github.com/ziadkadry99/learnova/internal/export"
	"github.com/ziadkadry99/learnova/internal/progress"
	"github.com/ziadkadry99/learnova/internal/study"
)

var (
	askSubject string
	askLevel   string
	askImage   string
	askHTML    bool
	askPDF     string
	askTheme   string
	askWidth   int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a study question from the terminal",
	Long: `Explains a question (and optionally an image of it) and prints the answer
formatted for the terminal. Use --html for the rendered markup or --pdf to
also save a printable copy.`,
	Example: `  learnova ask "Why do ice cubes float?" --subject physics --level CLASS_6
  learnova ask --image worksheet.jpg --level NEET_JEE --pdf answer.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := study.ParseLevel(askLevel); err != nil {
			return err
		}
		if _, ok := study.SubjectByID(askSubject); !ok {
			return fmt.Errorf("unknown subject %q", askSubject)
		}

		req := assistant.Request{
			Question:  strings.Join(args, " "),
			SubjectID: askSubject,
			Level:     study.Level(askLevel),
		}
		if askImage != "" {
			data, err := os.ReadFile(askImage)
			if err != nil {
				return fmt.Errorf("%s (%w)", assistant.MsgImageRead, err)
			}
			req.Image = &assistant.ImageInput{
				Name:     filepath.Base(askImage),
				MIMEType: mime.TypeByExtension(strings.ToLower(filepath.Ext(askImage))),
				Data:     data,
			}
		}

		ctx := context.Background()
		svc, err := newAssistant(ctx, cfg)
		if err != nil {
			return err
		}

		rep := progress.NewReporter(cmd.ErrOrStderr())
		rep.Start(-1, "Thinking")
		answer, err := svc.Explain(ctx, req)
		rep.Finish()
		if err != nil {
			return errors.New(assistant.UserMessage(err))
		}

		out := cmd.OutOrStdout()
		if askHTML {
			fmt.Fprintln(out, answer.HTML)
		} else if err := export.WriteTerminal(answer.Markdown, out, export.TerminalOptions{Theme: askTheme, Width: askWidth}); err != nil {
			return err
		}

		if askPDF != "" {
			f, err := os.Create(askPDF)
			if err != nil {
				return fmt.Errorf("creating %s: %w", askPDF, err)
			}
			if err := svc.ExportPDF(ctx, req.Question, answer.Markdown, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", askPDF)
		}

		if verbose {
			u := answer.Usage
			approx := ""
			if u.Estimated {
				approx = "~"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s via %s: %s%s in / %s%s out tokens, $%.5f, %s\n",
				answer.Model, answer.Provider,
				approx, humanize.Comma(int64(u.InputTokens)),
				approx, humanize.Comma(int64(u.OutputTokens)),
				u.CostUSD, answer.Elapsed.Round(time.Millisecond))
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSubject, "subject", study.SubjectGeneral, "subject: general, physics, chemistry, biology, maths")
	askCmd.Flags().StringVar(&askLevel, "level", string(study.LevelGeneral), "explanation level: GENERAL, CLASS_6, CLASS_10, NEET_JEE")
	askCmd.Flags().StringVar(&askImage, "image", "", "path to an image of the question")
	askCmd.Flags().BoolVar(&askHTML, "html", false, "print rendered HTML instead of terminal output")
	askCmd.Flags().StringVar(&askPDF, "pdf", "", "also write the answer to this PDF file")
	askCmd.Flags().StringVar(&askTheme, "theme", "", "terminal theme")
	askCmd.Flags().IntVar(&askWidth, "width", 80, "terminal wrap width")
	rootCmd.AddCommand(askCmd)
}
