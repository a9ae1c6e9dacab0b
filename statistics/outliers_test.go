/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package statistics_test

import (
	"testing"

	"chainguard.dev/evalkit/statistics"
	"github.com/google/go-cmp/cmp"
)

func TestDetectOutliers(t *testing.T) {
	t.Parallel()
	eng := statistics.New()

	t.Run("flags the spike", func(t *testing.T) {
		t.Parallel()
		got := eng.DetectOutliers([]float64{10, 11, 10, 12, 11, 10, 11, 100})
		if got.Method != statistics.MethodIQR {
			t.Errorf("Method = %q, wanted %q", got.Method, statistics.MethodIQR)
		}
		if diff := cmp.Diff([]int{7}, got.Indices); diff != "" {
			t.Errorf("Indices mismatch (-want, +got):\n%s", diff)
		}
		if got.LowerBound >= got.UpperBound {
			t.Errorf("fences [%v, %v] are inverted", got.LowerBound, got.UpperBound)
		}
	})

	t.Run("too few samples", func(t *testing.T) {
		t.Parallel()
		got := eng.DetectOutliers([]float64{1, 2, 3})
		if got.Method != statistics.MethodInsufficientData {
			t.Errorf("Method = %q, wanted %q", got.Method, statistics.MethodInsufficientData)
		}
		if len(got.Indices) != 0 {
			t.Errorf("Indices = %v, wanted none", got.Indices)
		}
	})

	t.Run("uniform samples have no outliers", func(t *testing.T) {
		t.Parallel()
		got := eng.DetectOutliers([]float64{5, 5, 5, 5, 5})
		if got.Method != statistics.MethodIQR {
			t.Errorf("Method = %q, wanted %q", got.Method, statistics.MethodIQR)
		}
		if len(got.Indices) != 0 {
			t.Errorf("Indices = %v, wanted none", got.Indices)
		}
	})

	t.Run("indices refer to input positions", func(t *testing.T) {
		t.Parallel()
		got := eng.DetectOutliers([]float64{100, 10, 11, 10, 12, 11, 10, 11})
		if diff := cmp.Diff([]int{0}, got.Indices); diff != "" {
			t.Errorf("Indices mismatch (-want, +got):\n%s", diff)
		}
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		t.Parallel()
		strict := statistics.New(statistics.WithMinOutlierSamples(10))
		got := strict.DetectOutliers([]float64{10, 11, 10, 12, 11, 10, 11, 100})
		if got.Method != statistics.MethodInsufficientData {
			t.Errorf("Method = %q, wanted %q", got.Method, statistics.MethodInsufficientData)
		}
	})
}
