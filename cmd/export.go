package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnova/internal/export"
)

var (
	exportOut       string
	exportQuestion  string
	exportTheme     string
	exportPrintable bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file.md>",
	Short: "Export a Markdown answer to PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(src)) == "" {
			return fmt.Errorf("%s is empty", args[0])
		}

		out := exportOut
		if out == "" {
			out = strings.TrimSuffix(args[0], ".md") + ".pdf"
		}

		doc := string(src)
		if exportQuestion != "" {
			doc = export.Document(exportQuestion, doc, time.Now())
		}

		var buf bytes.Buffer
		if err := export.WritePDF(doc, &buf, export.PDFOptions{Theme: exportTheme, Printable: exportPrintable}); err != nil {
			return err
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, humanize.Bytes(uint64(buf.Len())))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output PDF path (default: input with .pdf)")
	exportCmd.Flags().StringVar(&exportQuestion, "question", "", "print this question above the answer")
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "PDF theme")
	exportCmd.Flags().BoolVar(&exportPrintable, "printable", true, "plain black-on-white output")
	rootCmd.AddCommand(exportCmd)
}
