package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A")
	writeFile(t, filepath.Join(dir, "notes", "physics", "b.md"), "# B")
	writeFile(t, filepath.Join(dir, "notes", "c.txt"), "C")

	files, err := expandGlobs([]string{
		filepath.Join(dir, "**", "*.md"),
		filepath.Join(dir, "a.md"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "notes", "physics", "b.md"),
	}, files)

	_, err = expandGlobs([]string{"[bad"})
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())
	assert.Equal(t, "learnova dev\n", out.String())
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "answer.md")
	writeFile(t, src, "Photosynthesis turns **light** into sugar.")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"export", src, "--question", "What is photosynthesis?"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())

	pdf := filepath.Join(dir, "answer.pdf")
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.True(t, strings.HasPrefix(out.String(), "Wrote "+pdf))
}
