// SPDX-License-Identifier: MIT

package render_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/render"
)

func texts(res compute.Result) [][]string {
	var out [][]string
	add := func(row []compute.Cell) {
		line := make([]string, len(row))
		for i, c := range row {
			line[i] = c.Text
		}
		out = append(out, line)
	}
	if res.Values != nil {
		add(res.Values)
	}
	for _, row := range res.Matrix {
		add(row)
	}
	for _, row := range res.Vectors {
		add(row)
	}

	return out
}

func TestRender_RealLeaves(t *testing.T) {
	r := render.New()
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{-2, "-2"},
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{0.5, "1/2"},
		{-0.75, "-3/4"},
		{1.0 / 3, "1/3"},
		{22.0 / 7, "22/7"},
		{0.001, "1/1000"},
		{math.Sqrt(2) / 2, "√2/2"},
		{-3 * math.Sqrt(5), "-3√5"},
		{math.Sqrt(3), "√3"},
		{2 * math.Sqrt(2) / 3, "2√2/3"},
		{math.Pi, ""},
		{1 / math.Pi, ""},
		{1e16, ""},
	} {
		got, err := r.Render(compute.MatrixResult(compute.Matrix{{tc.in}}), compute.OpTranspose)
		require.NoError(t, err)
		require.Equal(t, tc.want, got.Matrix[0][0].Text, "value %v", tc.in)
		require.Equal(t, complex(tc.in, 0), got.Matrix[0][0].Value)
	}
}

func TestRender_FractionTranspose(t *testing.T) {
	res := compute.MatrixResult(compute.Matrix{{0.5}, {0.75}})
	got, err := render.New().Render(res, compute.OpTranspose)
	require.NoError(t, err)
	if diff := cmp.Diff([][]string{{"1/2"}, {"3/4"}}, texts(got)); diff != "" {
		t.Fatalf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_TinyValuesKeepTheirMagnitude(t *testing.T) {
	r := render.New()

	got, err := r.Render(compute.MatrixResult(compute.Matrix{{5e-10}, {-2e-10}}), compute.OpTranspose)
	require.NoError(t, err)
	require.Equal(t, [][]string{{""}, {""}}, texts(got))
	require.Equal(t, complex(5e-10, 0), got.Matrix[0][0].Value)

	// Rounding noise next to ordinary entries still reads as zero.
	got, err = r.Render(compute.MatrixResult(compute.Matrix{{0.5, 1e-17}, {-3e-16, 2}}), compute.OpInverse)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1/2", "0"}, {"0", "2"}}, texts(got))
}

func TestRender_MaxDenominator(t *testing.T) {
	res := compute.MatrixResult(compute.Matrix{{1.0 / 1024}})
	got, err := render.New().Render(res, compute.OpTranspose)
	require.NoError(t, err)
	require.Empty(t, got.Matrix[0][0].Text)

	got, err = render.New(render.WithMaxDenominator(2048)).Render(res, compute.OpTranspose)
	require.NoError(t, err)
	require.Equal(t, "1/1024", got.Matrix[0][0].Text)
}

func TestRender_SurdsOnlyForEigen(t *testing.T) {
	golden := (1 + math.Sqrt(5)) / 2
	conj := (1 - math.Sqrt(5)) / 2
	res := compute.VectorResult([]complex128{complex(conj, 0), complex(golden, 0)})

	got, err := render.New().Render(res, compute.OpEigenvalues)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"(1-√5)/2", "(1+√5)/2"}}, texts(got))

	plain, err := render.New().Render(compute.MatrixResult(compute.Matrix{{golden}}), compute.OpMultiply)
	require.NoError(t, err)
	require.Empty(t, plain.Matrix[0][0].Text)

	got, err = render.New().Render(compute.VectorResult([]complex128{complex(2+math.Sqrt(3), 0)}), compute.OpEigenvalues)
	require.NoError(t, err)
	require.Equal(t, "2+√3", got.Values[0].Text)
}

func TestRender_Complex(t *testing.T) {
	res := compute.VectorResult([]complex128{
		complex(0, 1),
		complex(0, -1),
		complex(0.5, math.Sqrt(3)/2),
		complex(1, -2),
		complex(math.Pi, math.E),
	})
	got, err := render.New().Render(res, compute.OpEigenvalues)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"i", "-i", "1/2+(√3/2)i", "1-2i", ""}}, texts(got))
}

func TestRender_EigenBundle(t *testing.T) {
	h := math.Sqrt(2) / 2
	res := compute.EigenResult(
		[]complex128{1, 3},
		[][]complex128{{complex(-h, 0), complex(h, 0)}, {complex(h, 0), complex(h, 0)}},
	)
	got, err := render.New().Render(res, compute.OpEigenvectors)
	require.NoError(t, err)
	require.Equal(t, compute.KindEigen, got.Kind)
	require.Equal(t, [][]string{{"1", "3"}, {"-√2/2", "√2/2"}, {"√2/2", "√2/2"}}, texts(got))
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	res := compute.MatrixResult(compute.Matrix{{0.5, 2}})
	before := res.Clone()
	_, err := render.New().Render(res, compute.OpTranspose)
	require.NoError(t, err)
	if diff := cmp.Diff(before, res); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestRender_NonFinite(t *testing.T) {
	res := compute.MatrixResult(compute.Matrix{{1, math.NaN()}})
	_, err := render.New().Render(res, compute.OpTranspose)
	require.ErrorIs(t, err, render.ErrNonFinite)
}

func TestBestEffort_ReturnsOriginalAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := render.New(render.WithLogger(zap.New(core)))

	res := compute.VectorResult([]complex128{complex(math.Inf(1), 0), 0.5})
	got := r.BestEffort(res, compute.OpEigenvalues)
	require.Equal(t, res.Values[1], got.Values[1])
	require.Empty(t, got.Values[1].Text)
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "eigenvalues", logs.All()[0].ContextMap()["operation"])

	ok := r.BestEffort(compute.VectorResult([]complex128{0.5}), compute.OpEigenvalues)
	require.Equal(t, "1/2", ok.Values[0].Text)
	require.Equal(t, 1, logs.Len())
}
