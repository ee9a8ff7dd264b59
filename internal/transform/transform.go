// Package transform provides element-wise numeric operations over
// columns. All operations propagate NaN: a missing input cell yields a
// missing output cell, never an error.
package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"propscope/domain/core"
)

func checkShapes(a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d", core.ErrShapeMismatch, len(a), len(b))
	}
	return nil
}

// Add returns a + b element-wise.
func Add(a, b []float64) ([]float64, error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	return floats.AddTo(make([]float64, len(a)), a, b), nil
}

// Sub returns a - b element-wise.
func Sub(a, b []float64) ([]float64, error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	return floats.SubTo(make([]float64, len(a)), a, b), nil
}

// Mul returns a * b element-wise.
func Mul(a, b []float64) ([]float64, error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	return floats.MulTo(make([]float64, len(a)), a, b), nil
}

// Div returns a / b element-wise. Division by zero follows IEEE 754
// (+/-Inf, or NaN for 0/0).
func Div(a, b []float64) ([]float64, error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	return floats.DivTo(make([]float64, len(a)), a, b), nil
}

// AddConst returns xs + c element-wise.
func AddConst(xs []float64, c float64) []float64 {
	out := append([]float64(nil), xs...)
	floats.AddConst(c, out)
	return out
}

// Scale returns xs * c element-wise.
func Scale(xs []float64, c float64) []float64 {
	return floats.ScaleTo(make([]float64, len(xs)), c, xs)
}

// Apply maps fn over xs.
func Apply(xs []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = fn(v)
	}
	return out
}

// Sin returns sin(xs) element-wise.
func Sin(xs []float64) []float64 { return Apply(xs, math.Sin) }

// Cos returns cos(xs) element-wise.
func Cos(xs []float64) []float64 { return Apply(xs, math.Cos) }

// Tan returns tan(xs) element-wise.
func Tan(xs []float64) []float64 { return Apply(xs, math.Tan) }

// Exp returns e**xs element-wise.
func Exp(xs []float64) []float64 { return Apply(xs, math.Exp) }

// Log returns the natural log element-wise. Non-positive inputs follow
// math.Log semantics (NaN or -Inf).
func Log(xs []float64) []float64 { return Apply(xs, math.Log) }

// Log10 returns the base-10 log element-wise.
func Log10(xs []float64) []float64 { return Apply(xs, math.Log10) }

// Sqrt returns the square root element-wise.
func Sqrt(xs []float64) []float64 { return Apply(xs, math.Sqrt) }

// Square returns xs**2 element-wise.
func Square(xs []float64) []float64 {
	return Apply(xs, func(v float64) float64 { return v * v })
}

// Sum returns the total of xs. Any NaN makes the total NaN.
func Sum(xs []float64) float64 { return floats.Sum(xs) }

// NaNSum returns the total of the non-missing values of xs.
func NaNSum(xs []float64) float64 {
	total := 0.0
	for _, v := range xs {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// CumSum returns the running total of xs.
func CumSum(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	return floats.CumSum(make([]float64, len(xs)), xs)
}

// Dot returns the dot product of a and b.
func Dot(a, b []float64) (float64, error) {
	if err := checkShapes(a, b); err != nil {
		return 0, err
	}
	return floats.Dot(a, b), nil
}
