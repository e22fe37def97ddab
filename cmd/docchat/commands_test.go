package main

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/docchat/internal/stubserver"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("DOCCHAT_LOG_FILE", "")
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func TestAskSystemNeedsNoDocument(t *testing.T) {
	ts := httptest.NewServer(stubserver.New(stubserver.Options{}, nil).Handler())
	t.Cleanup(ts.Close)

	out, _, err := runCLI(t, "--base-url", ts.URL+"/api", "--api-key", "sk-test", "--log-level", "error",
		"ask", "--system", "Be brief.", "What", "is", "a", "lease?")
	require.NoError(t, err)
	assert.Contains(t, out, "assistant> Instructions: Be brief.\n")
	assert.Contains(t, out, "You asked: What is a lease?\n")
}

func TestAskDirectUsesDefaultInstructions(t *testing.T) {
	ts := httptest.NewServer(stubserver.New(stubserver.Options{}, nil).Handler())
	t.Cleanup(ts.Close)

	out, _, err := runCLI(t, "--base-url", ts.URL+"/api", "--api-key", "sk-test", "--log-level", "error",
		"ask", "--direct", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Instructions: You are a helpful assistant.\n")
}

func TestAskDirectWithoutKey(t *testing.T) {
	t.Setenv("DOCCHAT_API_KEY", "")
	_, errOut, err := runCLI(t, "--base-url", "http://127.0.0.1:1/api", "--log-level", "error",
		"ask", "--direct", "hello")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Please enter your API key.")
}

func TestAskDirectRejectedByServer(t *testing.T) {
	ts := httptest.NewServer(stubserver.New(stubserver.Options{}, nil).Handler())
	t.Cleanup(ts.Close)

	out, _, err := runCLI(t, "--base-url", ts.URL+"/api", "--api-key", " ", "--log-level", "error",
		"ask", "--direct", "hello")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "[error] API key is required.\n", out)
}
