package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVec3Distance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected float64
	}{
		{"same point", V3(1, 2, 3), V3(1, 2, 3), 0},
		{"axis x", V3(-100, 0.15, 0), V3(0, 0.15, 0), 100},
		{"axis z", V3(0, 0, -8), V3(0, 0, 0), 8},
		{"diagonal 3-4-5", V3(3, 0, 4), V3(0, 0, 0), 5},
		{"includes height", V3(0, 3, 4), V3(0, 0, 0), 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Distance(tc.b)
			if math.Abs(got-tc.expected) > eps {
				t.Errorf("Distance() = %f, expected %f", got, tc.expected)
			}
			// Also test symmetry
			if math.Abs(tc.b.Distance(tc.a)-got) > eps {
				t.Errorf("Distance() is not symmetric")
			}
		})
	}
}

func TestVec3Normalize(t *testing.T) {
	n, ok := V3(0, 0, -100).Normalize()
	if !ok {
		t.Fatal("Normalize() of non-zero vector should succeed")
	}
	if math.Abs(n.Len()-1) > eps {
		t.Errorf("normalized length = %f, expected 1", n.Len())
	}
	if math.Abs(n.Z+1) > eps {
		t.Errorf("normalized Z = %f, expected -1", n.Z)
	}

	zero, ok := Vec3{}.Normalize()
	if ok {
		t.Error("Normalize() of zero vector should report false")
	}
	if zero != (Vec3{}) {
		t.Errorf("Normalize() of zero vector = %v, expected zero", zero)
	}
}

func TestVec3Ground(t *testing.T) {
	g := V3(4, 0.15, -2).Ground()
	if g.Y != 0 || g.X != 4 || g.Z != -2 {
		t.Errorf("Ground() = %v, expected (4, 0, -2)", g)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	if got := a.Add(b); got != V3(5, 7, 9) {
		t.Errorf("Add() = %v", got)
	}
	if got := b.Sub(a); got != V3(3, 3, 3) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale() = %v", got)
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
