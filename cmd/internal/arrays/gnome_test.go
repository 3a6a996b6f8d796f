package arrays

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func TestSort_Basic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   []int
		want []int
	}{
		{name: "single", in: []int{7}, want: []int{7}},
		{name: "reversed", in: []int{5, 4, 3, 2, 1}, want: []int{1, 2, 3, 4, 5}},
		{name: "already sorted", in: []int{1, 2, 3}, want: []int{1, 2, 3}},
		{name: "duplicates", in: []int{2, 2, 2}, want: []int{2, 2, 2}},
		{name: "negatives", in: []int{0, -3, 8, -3, 1}, want: []int{-3, -3, 0, 1, 8}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Sort(append([]int(nil), tc.in...))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Sort(%v)=%v want=%v", tc.in, got, tc.want)
			}
		})
	}
}

// Output must be a non-decreasing permutation of the input for arbitrary
// sequences.
func TestSort_RandomPermutation(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(40) + 1
		in := make([]int, n)
		for i := range in {
			in[i] = rng.Intn(21) - 10
		}

		want := append([]int(nil), in...)
		sort.Ints(want)

		got := Sort(append([]int(nil), in...))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: Sort(%v)=%v want=%v", trial, in, got, want)
		}
	}
}

func TestSort_SortedInputNeedsNoSwaps(t *testing.T) {
	t.Parallel()

	in := []int{1, 1, 2, 3, 5, 8, 13}
	if swaps := gnome(in); swaps != 0 {
		t.Fatalf("sorted input performed %d swaps, want 0", swaps)
	}
}

func TestSort_InPlace(t *testing.T) {
	t.Parallel()

	in := []int{3, 1, 2}
	got := Sort(in)
	if &got[0] != &in[0] {
		t.Fatalf("Sort must operate in place")
	}
}
