package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-wc/internal/persistence"
	"github.com/gcbaptista/go-wc/internal/testutil"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runGowc(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRun_Counts(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.txt": "line one\nline two\nline three\nline four\n",
		"b.txt": "My name is Alexander\nHamilton",
	})
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "default columns",
			args:     []string{a},
			expected: "       4       8      39 " + a + "\n",
		},
		{
			name: "total row",
			args: []string{a, b},
			expected: "       4       8      39 " + a + "\n" +
				"       1       5      29 " + b + "\n" +
				"       5      13      68 total\n",
		},
		{
			name:     "lines only",
			args:     []string{"-l", a},
			expected: "       4 " + a + "\n",
		},
		{
			name:     "words and chars",
			args:     []string{"-w", "-c", b},
			expected: "       5      29 " + b + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runGowc(t, "", tt.args...)
			assert.Equal(t, 0, res.code, res.stderr)
			assert.Equal(t, tt.expected, res.stdout)
			assert.Empty(t, res.stderr)
		})
	}
}

func TestRun_Stdin(t *testing.T) {
	res := runGowc(t, "asdf\nasdf!")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "       1       2      10\n", res.stdout)

	res = runGowc(t, "b a b", "-f", "-k", "1")
	assert.Equal(t, "       2 b\n", res.stdout)
}

func TestRun_Frequency(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"one.txt": testutil.SampleText,
		"two.txt": testutil.SampleTextMore,
	})
	one := filepath.Join(dir, "one.txt")
	two := filepath.Join(dir, "two.txt")

	for _, jobs := range []string{"1", "4"} {
		res := runGowc(t, "", "-f", "-k", "3", "-j", jobs, one, two)
		assert.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "       6 test\n       4 hello\n       3 example\n", res.stdout)
	}

	// default K is 10 and a short ranking is not padded
	res := runGowc(t, "", "-f", one)
	assert.Equal(t, "       3 hello\n       2 test\n       2 world\n", res.stdout)

	res = runGowc(t, "", "-f", "-k", "0", one)
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)

	// counts and frequency combine
	res = runGowc(t, "", "-f", "-l", "-k", "1", one)
	assert.Equal(t, "       0 "+one+"\n       3 hello\n", res.stdout)
}

func TestRun_MissingFile(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"a.txt": "x y\n"})
	a := filepath.Join(dir, "a.txt")
	missing := filepath.Join(dir, "missing.txt")

	res := runGowc(t, "", a, missing)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "       1       2       4 "+a+"\n       1       2       4 total\n", res.stdout)
	assert.Equal(t, "wc: "+missing+": no such file or directory\n", res.stderr)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--nope"}},
		{"negative top", []string{"-f", "-k", "-1"}},
		{"bad color", []string{"--color", "rainbow"}},
		{"bad completion shell", []string{"--completion", "tcsh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runGowc(t, "", tt.args...)
			assert.Equal(t, 2, res.code)
			assert.True(t, strings.HasPrefix(res.stderr, "gowc: "), res.stderr)
		})
	}
}

func TestRun_Recursive(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"docs/a.txt":         "a b",
		"docs/sub/b.txt":     "b c",
		"docs/.hidden/h.txt": "hidden",
	})
	docs := filepath.Join(dir, "docs")

	res := runGowc(t, "", "-w", "-r", docs)
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t,
		"       2 "+filepath.Join(docs, "a.txt")+"\n"+
			"       2 "+filepath.Join(docs, "sub", "b.txt")+"\n"+
			"       4 total\n",
		res.stdout)

	// without -r a directory is an unreadable input
	res = runGowc(t, "", "-w", docs)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "wc: "+docs+": ")
}

func TestRun_SaveAndLoadTable(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"one.txt": testutil.SampleText,
		"two.txt": testutil.SampleTextMore,
	})
	table := filepath.Join(dir, "tables", "one.gob")

	res := runGowc(t, "", "-l", "--save-table", table, filepath.Join(dir, "one.txt"))
	require.Equal(t, 0, res.code, res.stderr)

	saved, snap, err := persistence.LoadTable(table)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Get("hello"))
	assert.Equal(t, []string{filepath.Join(dir, "one.txt")}, snap.Inputs)

	res = runGowc(t, "", "-f", "-k", "3", "--load-table", table, filepath.Join(dir, "two.txt"))
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "       6 test\n       4 hello\n       3 example\n", res.stdout)

	res = runGowc(t, "", "-f", "--load-table", filepath.Join(dir, "nope.gob"), filepath.Join(dir, "two.txt"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "nope.gob")

	// a loaded table with nothing to merge it into is a usage error
	res = runGowc(t, "", "--load-table", table, filepath.Join(dir, "two.txt"))
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "load-table requires --frequency or --save-table")
	assert.Empty(t, res.stdout)
}

func TestRun_JSON(t *testing.T) {
	res := runGowc(t, "a b a", "--json", "-f", "-w", "-k", "1")
	require.Equal(t, 0, res.code, res.stderr)

	var report struct {
		Inputs []struct {
			Name   string `json:"name"`
			Counts struct {
				Words int `json:"words"`
			} `json:"counts"`
		} `json:"inputs"`
		Ranking []struct {
			Token string `json:"token"`
			Count int    `json:"count"`
		} `json:"ranking"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	require.Len(t, report.Inputs, 1)
	assert.Equal(t, "-", report.Inputs[0].Name)
	assert.Equal(t, 3, report.Inputs[0].Counts.Words)
	require.Len(t, report.Ranking, 1)
	assert.Equal(t, "a", report.Ranking[0].Token)
}

func TestRun_Completion(t *testing.T) {
	res := runGowc(t, "", "--completion", "bash")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "gowc")
}
