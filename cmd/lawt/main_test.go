// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lawt/compute"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append(args, "--log-level", "error"))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReadRequest_YAMLAndJSON(t *testing.T) {
	yamlPath := writeFile(t, "req.yaml", "operation: add\nmatrixA: [[1, \"1/2\"]]\nmatrixB: [[2, 3]]\n")
	req, err := readRequest(nil, yamlPath)
	require.NoError(t, err)
	assert.Equal(t, compute.OpAdd, req.Operation)
	require.NotNil(t, req.MatrixB)
	assert.Equal(t, "1/2", req.MatrixA[0][1].Text)

	jsonPath := writeFile(t, "req.json", `{"operation":"transpose","matrixA":[[1,2]]}`)
	req, err = readRequest(nil, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, compute.OpTranspose, req.Operation)
	assert.Nil(t, req.MatrixB)
}

func TestReadRequest_Malformed(t *testing.T) {
	_, err := readRequest(strings.NewReader("{not json"), "-")
	assert.ErrorIs(t, err, compute.ErrMalformedRequest)

	_, err = readRequest(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestComputeCmd_Success(t *testing.T) {
	out, err := run(t, `{"operation":"inverse","matrixA":[[2,0],[0,4]]}`, "compute")
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "reference", env["method"])
	assert.Equal(t, []any{[]any{"1/2", "0"}, []any{"0", "1/4"}}, env["result"])
}

func TestComputeCmd_YAMLIntegerNotations(t *testing.T) {
	out, err := run(t, "operation: transpose\nmatrixA: [[0x10, 1_000]]\n", "compute")
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, []any{[]any{"16"}, []any{"1000"}}, env["result"])
}

func TestComputeCmd_OverflowIsAFailure(t *testing.T) {
	out, err := run(t, `{"operation":"multiply","matrixA":[[1e200]],"matrixB":[[1e200]]}`, "compute")
	assert.ErrorIs(t, err, errComputeFailed)
	assert.Contains(t, out, "numeric overflow")
}

func TestComputeCmd_FailureExitsNonZero(t *testing.T) {
	out, err := run(t, `{"operation":"inverse","matrixA":[[1,2],[2,4]]}`, "compute")
	assert.ErrorIs(t, err, errComputeFailed)
	assert.Contains(t, out, `"matrix is not invertible"`)
}

func TestComputeCmd_ModelDisabled(t *testing.T) {
	out, err := run(t, "operation: transpose\nmatrixA: [[1]]\n", "compute", "--method", "model")
	assert.ErrorIs(t, err, errComputeFailed)
	assert.Contains(t, out, "model backend is unavailable")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "lawt "+version+"\n", out)
}
