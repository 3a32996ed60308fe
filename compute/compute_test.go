// SPDX-License-Identifier: MIT
package compute_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lawt/compute"
)

func TestParseMethod(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]compute.Method{
		"":          compute.MethodReference,
		"reference": compute.MethodReference,
		"numpy":     compute.MethodReference,
		"bogus":     compute.MethodReference,
		"model":     compute.MethodModel,
		" LAWT ":    compute.MethodModel,
	} {
		require.Equal(t, want, compute.ParseMethod(in), "method %q", in)
	}
}

func TestOperationShape(t *testing.T) {
	t.Parallel()

	require.True(t, compute.OpAdd.Binary())
	require.True(t, compute.OpMultiply.Binary())
	require.False(t, compute.OpInverse.Binary())
	require.Equal(t, compute.KindVector, compute.OpEigenvalues.ResultKind())
	require.Equal(t, compute.KindEigen, compute.OpEigenvectors.ResultKind())
	require.Equal(t, compute.KindMatrix, compute.OpTranspose.ResultKind())
	require.False(t, compute.Operation("determinant").Known())
}

func TestRequestDecodeJSON(t *testing.T) {
	t.Parallel()

	body := `{"operation":"add","matrixA":[[1,"1/2"],[null,true]],"method":"model"}`
	var req compute.Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.Equal(t, compute.OpAdd, req.Operation)
	require.Nil(t, req.MatrixB)
	require.Equal(t, compute.Literal{Text: "1", Numeric: true}, req.MatrixA[0][0])
	require.Equal(t, compute.Str("1/2"), req.MatrixA[0][1])
	require.Equal(t, "null", req.MatrixA[1][0].Invalid)
	require.Equal(t, "boolean", req.MatrixA[1][1].Invalid)
}

func TestRequestDecodeYAML(t *testing.T) {
	t.Parallel()

	doc := `
operation: multiply
matrixA:
  - [1, "√2"]
matrixB:
  - [2.5]
  - [~]
`
	var req compute.Request
	require.NoError(t, yaml.Unmarshal([]byte(doc), &req))

	require.Equal(t, compute.OpMultiply, req.Operation)
	require.True(t, req.MatrixA[0][0].Numeric)
	require.Equal(t, "√2", req.MatrixA[0][1].Text)
	require.NotNil(t, req.MatrixB)
	require.Equal(t, "2.5", (*req.MatrixB)[0][0].Text)
	require.Equal(t, "null", (*req.MatrixB)[1][0].Invalid)
}

func TestRequestDecodeYAML_IntegerNotations(t *testing.T) {
	t.Parallel()

	var m compute.MatrixLiteral
	require.NoError(t, yaml.Unmarshal([]byte(`[[0x10, 1_000, 0o17, -7, 1e3]]`), &m))
	require.Equal(t, compute.MatrixLiteral{{
		compute.Num(16), compute.Num(1000), compute.Num(15), compute.Num(-7), compute.Num(1000),
	}}, m)
}

func TestResultJSON(t *testing.T) {
	t.Parallel()

	res := compute.EigenResult(
		[]complex128{2, complex(1, -1)},
		[][]complex128{{1, 0}, {0, complex(0, 1)}},
	)
	res.Values[0].Text = "2"

	data, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"eigenvalues":["2",{"re":1,"im":-1}],"eigenvectors":[[1,0],[0,{"re":0,"im":1}]]}`,
		string(data))

	back, err := compute.DecodeResult([]byte(`{"eigenvalues":[2,{"re":1,"im":-1}],"eigenvectors":[[1,0],[0,1]]}`), compute.KindEigen)
	require.NoError(t, err)
	require.Equal(t, complex(1, -1), back.Values[1].Value)

	_, err = compute.DecodeResult([]byte(`{"eigenvalues":[1],"eigenvectors":[]}`), compute.KindEigen)
	require.Error(t, err)
}

func TestResultCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := compute.MatrixResult(compute.Matrix{{1, 2}})
	cp := orig.Clone()
	cp.Matrix[0][0].Text = "changed"

	require.Empty(t, orig.Matrix[0][0].Text)
}

func TestParseErrorMatchesSentinel(t *testing.T) {
	t.Parallel()

	var err error = &compute.ParseError{Matrix: "matrixA", Row: 1, Col: 0, Token: "x", Offset: 0, Reason: "illegal character"}
	require.True(t, errors.Is(err, compute.ErrParse))
	require.Contains(t, err.Error(), "matrixA[1][0]")
}
