package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ba_1.PNG", "alif_1.jpg", "notes.txt", "ta_2.jpeg", "dal.bmp", "x.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.jpg"), 0755))

	paths, err := listImages(dir)

	require.NoError(t, err)
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"alif_1.jpg", "ba_1.PNG", "dal.bmp", "ta_2.jpeg"}, names)

	_, err = listImages(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &out
	err := a.Run(append([]string{"ishara"}, args...))
	return out.String(), err
}

func TestThresholdsCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ishara.db")
	base := []string{"--config", filepath.Join(dir, "none.json"), "--env-file", filepath.Join(dir, "none.env"), "--db", db}

	out, err := runCLI(t, append(base, "--backend", "svm", "thresholds")...)
	require.NoError(t, err)
	assert.Contains(t, out, "high at 85.0%")

	_, err = runCLI(t, append(base, "--backend", "svm", "thresholds", "--high", "88")...)
	require.NoError(t, err)

	out, err = runCLI(t, append(base, "--backend", "svm", "thresholds")...)
	require.NoError(t, err)
	assert.Contains(t, out, "high at 88.0%")
	assert.Contains(t, out, "medium at 65.0%")

	out, err = runCLI(t, append(base, "thresholds")...)
	require.NoError(t, err)
	assert.Contains(t, out, "high at 90.0%", "cnn thresholds are untouched")

	_, err = runCLI(t, append(base, "thresholds", "--medium", "95")...)
	assert.Error(t, err)
}

func TestRunsCommand_Empty(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "--config", filepath.Join(dir, "none.json"), "--env-file", filepath.Join(dir, "none.env"),
		"--db", filepath.Join(dir, "ishara.db"), "runs")

	require.NoError(t, err)
	assert.Contains(t, out, "ACCURACY")
}

func TestInvalidBackendFlag(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "--config", filepath.Join(dir, "none.json"), "--backend", "knn", "runs")
	assert.Error(t, err)
}

func TestBatchCommand_NeedsFolder(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "--config", filepath.Join(dir, "none.json"), "--db", filepath.Join(dir, "ishara.db"), "batch")
	assert.Error(t, err)
}
