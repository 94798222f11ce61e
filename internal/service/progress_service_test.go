package service

import "testing"

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: -10, want: 0},
		{in: -1, want: 0},
		{in: 0, want: 0},
		{in: 55, want: 55},
		{in: 100, want: 100},
		{in: 101, want: 100},
		{in: 999, want: 100},
	}

	for _, tc := range tests {
		if got := clampPercent(tc.in); got != tc.want {
			t.Errorf("clampPercent(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
