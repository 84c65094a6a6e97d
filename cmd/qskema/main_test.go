package main

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = "../../schemafile/testdata/search.yaml"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(Config{Lang: "en", LogLevel: "error"})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecode_PrintsRecord(t *testing.T) {
	out, err := run(t, "", "decode", "-s", testSchema, "q=shoes&page=2&cursor=9007199254740993")
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":"shoes","page":2,"debug":false,"cursor":9007199254740993}`, out)
}

func TestDecode_ReadsStdin(t *testing.T) {
	out, err := run(t, "?q=a+b\n", "decode", "-s", testSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":"a b","debug":false}`, out)
}

func TestDecode_Meta(t *testing.T) {
	out, err := run(t, "", "decode", "-s", testSchema, "--meta", "q=x&q=y")
	require.NoError(t, err)
	var got struct {
		Data     map[string]any      `json:"data"`
		Presence map[string][]string `json:"presence"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "y", got.Data["q"])
	assert.Equal(t, []string{"seen", "duplicate"}, got.Presence["q"])
	assert.Equal(t, []string{"defaulted"}, got.Presence["debug"])
}

func TestDecode_IssuesExitNonZero(t *testing.T) {
	out, err := run(t, "", "decode", "-s", testSchema, "q=&page=0")
	require.ErrorIs(t, err, errInvalid)

	var got struct {
		Issues []struct {
			Code    string   `json:"code"`
			Path    []string `json:"path"`
			Message string   `json:"message"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "too_small", got.Issues[0].Code)
	assert.Equal(t, []string{"q"}, got.Issues[0].Path)
	assert.Equal(t, []string{"page"}, got.Issues[1].Path)
	assert.Equal(t, "Too small: expected number to be >=1", got.Issues[1].Message)

	out, err = run(t, "", "decode", "-s", testSchema, "--fail-fast", "q=&page=0")
	require.ErrorIs(t, err, errInvalid)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Issues, 1)
}

func TestDecode_RequiresSchema(t *testing.T) {
	_, err := run(t, "", "decode", "q=x")
	require.Error(t, err)

	_, err = run(t, "", "decode", "-s", "testdata/missing.yaml", "q=x")
	require.Error(t, err)
}

func TestEncode_KeepsJSONOrder(t *testing.T) {
	out, err := run(t, "", "encode", "-d", `{"name":"a b&c","big":9007199254740993,"n":1e21,"off":false,"age":30}`)
	require.NoError(t, err)
	assert.Equal(t, "name=a+b%26c&big=9007199254740993&n=1e%2B21&age=30\n", out)
}

func TestEncode_MergesOntoExistingQuery(t *testing.T) {
	out, err := run(t, `{"page": 1, "existing": null}`, "encode", "--onto", "existing=value&page=5")
	require.NoError(t, err)
	assert.Equal(t, "page=1\n", out)
}

func TestEncode_WithSchema(t *testing.T) {
	out, err := run(t, "", "encode", "-s", testSchema, "-d", `{"debug":true,"page":3,"q":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, "q=x&page=3&debug=true\n", out)

	_, err = run(t, "", "encode", "-s", testSchema, "-d", `{"q":"x","page":0.5,"debug":false}`)
	require.ErrorIs(t, err, errInvalid)
}

func TestEncode_RejectsNestedValues(t *testing.T) {
	_, err := run(t, "", "encode", "-d", `{"a":[1,2]}`)
	require.ErrorContains(t, err, `key "a"`)

	_, err = run(t, "", "encode", "-d", `[1]`)
	require.ErrorContains(t, err, "must be a JSON object")
}

func TestInstructions(t *testing.T) {
	out, err := run(t, "", "instructions", "-s", testSchema)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"FIELD", "KIND", "OPTIONAL"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"q", "string", "false"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"page", "number", "true"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"debug", "boolean", "false"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"cursor", "bigint", "true"}, strings.Fields(lines[6]))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("QSKEMA_LANG", "ja")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ja", cfg.Lang)
	assert.Equal(t, "warn", cfg.LogLevel)

	_, err = Config{LogLevel: "loud"}.NewLogger()
	require.Error(t, err)
}
