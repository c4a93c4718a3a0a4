package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/imrishuroy/valentine-rsvp/internal/responses"
)

// run executes one rsvpctl invocation against a LevelDB store in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.ExitErrHandler = func(*cli.Context, error) {}
	argv := append([]string{"rsvpctl", "--backend", "leveldb", "--leveldb-path", dir}, args...)
	err := app.Run(argv)
	return out.String(), err
}

func TestSubmitListStats(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "submit", "--answer", "yes", "--timestamp", "2026-02-14T13:00:00Z")
	require.NoError(t, err)
	key := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(key, responses.KeyPrefix))

	_, err = run(t, dir, "submit", "--answer", "no", "--message", "sorry", "--timestamp", "2026-02-10T09:00:00Z")
	require.NoError(t, err)

	out, err = run(t, dir, "list", "--json")
	require.NoError(t, err)
	var listed []responses.Response
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, key, listed[0].Key)
	assert.Equal(t, "sorry", listed[1].Value.Message)

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, key)
	assert.Contains(t, out, "ANSWER")

	out, err = run(t, dir, "stats", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":2,"yes":1,"no":1,"maybe":0}`, out)

	out, err = run(t, dir, "get", "--json", key)
	require.NoError(t, err)
	var got responses.Response
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "yes", got.Value.Answer)
}

func TestSubmitRejectsInvalidAnswer(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "submit", "--answer", "sure", "--timestamp", "2026-02-14T13:00:00Z")
	require.ErrorIs(t, err, responses.ErrValidation)

	out, err := run(t, dir, "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestGetMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "get", responses.KeyPrefix+"0_none")
	require.ErrorIs(t, err, responses.ErrNotFound)

	_, err = run(t, dir, "get")
	require.Error(t, err)
}
