package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/config"
	"github.com/matthewbaird/admingen/internal/logger"
)

const postConfig = `{
  "schema": {"title": "STRING", "count": "INTNUMBER"},
  "namingConvention": {
    "Users_1_000___": "Posts",
    "users_2_000___": "posts",
    "User_3_000___": "Post",
    "user_4_000___": "post",
    "use_generate_folder": true
  }
}`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRun_WritesAllKinds(t *testing.T) {
	logger.Set(zap.NewNop().Sugar())
	out := t.TempDir()
	cfgPath := writeConfig(t, "posts.json", postConfig)

	var stdout bytes.Buffer
	err := run(context.Background(), &config.Config{}, []string{"-config", cfgPath, "-out", out}, &stdout)
	require.NoError(t, err)

	for _, k := range artifact.Kinds() {
		p := filepath.Join(out, "src/app/dashboard/generate/posts/all", k.RelPath())
		assert.FileExists(t, p)
	}
	assert.Contains(t, stdout.String(), "wrote 11 files")
	assert.Contains(t, stdout.String(), "for Post")
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	logger.Set(zap.NewNop().Sugar())
	out := t.TempDir()
	cfgPath := writeConfig(t, "posts.json", postConfig)

	var stdout bytes.Buffer
	err := run(context.Background(), &config.Config{OutputConfig: config.OutputConfig{OutDir: out}},
		[]string{"-config", cfgPath, "-kinds", "model,summary", "-dry-run"}, &stdout)
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Contains(t, stdout.String(), "src/app/dashboard/generate/posts/all/api/v1/model.ts")
	assert.Contains(t, stdout.String(), "would write 2 files")
}

func TestRun_CueConfig(t *testing.T) {
	logger.Set(zap.NewNop().Sugar())
	out := t.TempDir()
	cfgPath := writeConfig(t, "posts.cue", `
schema: title: "STRING"
namingConvention: {
	Users_1_000___: "Posts"
	users_2_000___: "posts"
	User_3_000___:  "Post"
	user_4_000___:  "post"
}
`)
	var stdout bytes.Buffer
	err := run(context.Background(), &config.Config{}, []string{"-config", cfgPath, "-out", out, "-kinds", "store-data"}, &stdout)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "src/app/dashboard/posts/all/store/data/data.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "export interface IPost {")
}

func TestRun_ListKinds(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), &config.Config{}, []string{"-list-kinds"}, &stdout))
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, len(artifact.Kinds()))
	assert.True(t, strings.HasPrefix(lines[0], "model"))
}

func TestRun_Errors(t *testing.T) {
	logger.Set(zap.NewNop().Sugar())
	ctx := context.Background()
	var stdout bytes.Buffer

	err := run(ctx, &config.Config{}, nil, &stdout)
	assert.ErrorIs(t, err, errUsage)

	cfgPath := writeConfig(t, "posts.json", postConfig)
	err = run(ctx, &config.Config{}, []string{"-config", cfgPath, "-kinds", "widget"}, &stdout)
	assert.ErrorIs(t, err, artifact.ErrUnknownKind)

	err = run(ctx, &config.Config{}, []string{"-config", filepath.Join(t.TempDir(), "missing.json")}, &stdout)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStart_ExitCodes(t *testing.T) {
	t.Cleanup(func() { logger.Set(zap.NewNop().Sugar()) })
	cfgPath := writeConfig(t, "posts.json", postConfig)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"list kinds", []string{"-list-kinds"}, 0},
		{"dry run", []string{"-config", cfgPath, "-dry-run", "-out", t.TempDir()}, 0},
		{"no config", nil, 2},
		{"missing config file", []string{"-config", filepath.Join(t.TempDir(), "missing.json")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, start(tt.args, &stdout, &stderr))
		})
	}
}

func TestStart_BadEnvironment(t *testing.T) {
	t.Setenv("ADMINGEN_RATE_LIMIT_RPS", "0")
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, start([]string{"-list-kinds"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "scaffold: ")
	assert.Empty(t, stdout.String())
}
