package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cristianoliveira/inboxkit/internal/version"
	"github.com/stretchr/testify/require"
)

type fakeVersionClient struct {
	info version.Info
}

func (f fakeVersionClient) Version() version.Info { return f.info }

func TestNewVersionCmdPanicsWhenClientIsNil(t *testing.T) {
	require.PanicsWithValue(t, "NewVersionCmd: client dependency cannot be nil", func() {
		NewVersionCmd(nil)
	})
}

func TestVersionCmdText(t *testing.T) {
	cmd := NewVersionCmd(fakeVersionClient{info: version.Info{Version: "1.2.3", Commit: "abc", GoVersion: "go1.24.2"}})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "inboxkit version 1.2.3+abc (go1.24.2)\n", out.String())
}

func TestVersionCmdJSON(t *testing.T) {
	info := version.Info{Version: "1.2.3", GoVersion: "go1.24.2"}
	cmd := NewVersionCmd(fakeVersionClient{info: info})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--format", "json"})

	require.NoError(t, cmd.Execute())
	var got version.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, info, got)
}

func TestVersionCmdRejectsUnknownFormat(t *testing.T) {
	cmd := NewVersionCmd(fakeVersionClient{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "yaml"})

	require.ErrorContains(t, cmd.Execute(), "invalid format")
}
