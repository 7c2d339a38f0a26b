package ports

import (
	"math"
	"testing"
)

func TestPage_Normalize(t *testing.T) {
	cases := []struct {
		name string
		in   Page
		want Page
	}{
		{"defaults", Page{}, Page{Page: DefaultPage, Limit: DefaultLimit}},
		{"limit clamped", Page{Page: 2, Limit: 500}, Page{Page: 2, Limit: MaxLimit}},
		{"page clamped", Page{Page: math.MaxInt, Limit: 20}, Page{Page: MaxPage, Limit: 20}},
		{"negative page", Page{Page: -3, Limit: 10}, Page{Page: DefaultPage, Limit: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPage_OffsetNeverNegative(t *testing.T) {
	for _, p := range []Page{
		{Page: math.MaxInt, Limit: 20},
		{Page: math.MaxInt64 / 2, Limit: MaxLimit},
		{Page: math.MinInt, Limit: 20},
	} {
		if off := p.Offset(); off < 0 {
			t.Errorf("Offset() for %+v = %d", p, off)
		}
	}
	if off := (Page{Page: 3, Limit: 20}).Offset(); off != 40 {
		t.Errorf("expected offset 40, got %d", off)
	}
}

func TestPage_TotalPages(t *testing.T) {
	p := Page{Page: 1, Limit: 20}
	for total, want := range map[int64]int{0: 0, 1: 1, 20: 1, 21: 2, 45: 3} {
		if got := p.TotalPages(total); got != want {
			t.Errorf("TotalPages(%d) = %d, want %d", total, got, want)
		}
	}
}
