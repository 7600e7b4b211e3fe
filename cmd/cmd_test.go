package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/chunkz/internal/config"
	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/store"
)

func newTestCmd(t *testing.T, flags func(*cobra.Command)) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	c := &cobra.Command{}
	c.SetContext(context.Background())
	c.Flags().String("db", "", "")
	if flags != nil {
		flags(c)
	}
	var out bytes.Buffer
	c.SetOut(&out)
	return c, &out
}

func useConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "sentences.tsv")
	data := "part\tenglish\tjapanese\n" +
		"Part 1\tI like tea.\t私はお茶が好きです。\n" +
		"Part 2\tWe went to the park.\t私たちは公園に行きました。\n"
	require.NoError(t, os.WriteFile(src, []byte(data), 0o644))

	prev := appConfig
	t.Cleanup(func() { appConfig = prev })
	appConfig = &config.Config{
		Program: config.ProgramConfig{ID: "program7", Label: "Program 7", IDPrefix: "p7"},
		Dataset: config.DatasetConfig{Source: src, HeaderRows: 1},
		Quiz:    config.QuizConfig{MasterStreak: 3},
		Store:   config.StoreConfig{Path: filepath.Join(dir, "chunkz.db"), KeepSnapshots: 5},
		Log:     config.LogConfig{Level: "error", Format: "text"},
	}
	return appConfig.Store.Path
}

func TestSegmentText(t *testing.T) {
	c, out := newTestCmd(t, func(c *cobra.Command) {
		c.Flags().Bool("tokens", true, "")
		c.Flags().Bool("json", false, "")
	})

	require.NoError(t, runSegment(c, []string{"I like tea."}))
	got := out.String()
	assert.Contains(t, got, "  S  I\n")
	assert.Contains(t, got, "  V  like\n")
	assert.Contains(t, got, "tokens: I | like | tea")
}

func TestSegmentJSONFromStdin(t *testing.T) {
	c, out := newTestCmd(t, func(c *cobra.Command) {
		c.Flags().Bool("tokens", false, "")
		c.Flags().Bool("json", true, "")
	})
	c.SetIn(strings.NewReader("I like tea.\n\nWe went to the park.\n"))

	require.NoError(t, runSegment(c, nil))

	var got []segmentedSentence
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "We went to the park.", got[1].Sentence)
	assert.NotEmpty(t, got[1].Chunks)
	assert.Nil(t, got[0].Tokens)
}

func TestFindPart(t *testing.T) {
	program := dataset.Build(dataset.BuildOptions{ProgramID: "program7", IDPrefix: "p7"}, []dataset.Row{
		{Part: "Part 3", English: "I like tea.", Japanese: "私はお茶が好きです。"},
	})

	for _, arg := range []string{"program7-part3", "part 3", "3", " Part 3 "} {
		p := findPart(program, arg)
		if assert.NotNil(t, p, "arg %q", arg) {
			assert.Equal(t, "program7-part3", p.ID)
		}
	}
	assert.Nil(t, findPart(program, "4"))
}

func TestResetRequiresOneTarget(t *testing.T) {
	useConfig(t)
	tests := []struct {
		part string
		all  bool
	}{
		{"", false},
		{"1", true},
	}
	for _, tt := range tests {
		c, _ := newTestCmd(t, func(c *cobra.Command) {
			c.Flags().String("part", tt.part, "")
			c.Flags().Bool("all", tt.all, "")
		})
		assert.ErrorContains(t, resetCmd.RunE(c, nil), "exactly one")
	}
}

func TestResetAllDeletesSnapshots(t *testing.T) {
	dbPath := useConfig(t)
	ctx := context.Background()

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.SnapshotRepo().Save(ctx, &store.Snapshot{Key: store.ProgressKey("program7"), Data: store.DefaultProgress()}))
	require.NoError(t, st.Close())

	c, out := newTestCmd(t, func(c *cobra.Command) {
		c.Flags().String("part", "", "")
		c.Flags().Bool("all", true, "")
	})
	require.NoError(t, resetCmd.RunE(c, nil))
	assert.Contains(t, out.String(), "Cleared all progress")

	st, err = store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	snap, err := st.SnapshotRepo().Latest(ctx, store.ProgressKey("program7"))
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestPartsListsProgress(t *testing.T) {
	useConfig(t)
	c, out := newTestCmd(t, nil)

	require.NoError(t, partsCmd.RunE(c, nil))
	got := out.String()
	assert.Contains(t, got, "Part 1")
	assert.Contains(t, got, "program7-part2")
	assert.Contains(t, got, "TOTAL")
}

func TestLoadProgram_EmptyDatasetError(t *testing.T) {
	useConfig(t)
	empty := filepath.Join(t.TempDir(), "empty.tsv")
	require.NoError(t, os.WriteFile(empty, []byte("part\tenglish\tjapanese\n"), 0o644))
	appConfig.Dataset.Source = empty

	_, err := loadProgram(context.Background())
	require.ErrorIs(t, err, dataset.ErrEmpty)
	assert.Equal(t, 1, strings.Count(err.Error(), "load "+empty))
}
