package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize(Params{Limit: -1, Offset: -10})
	if got.Limit != DefaultLimit || got.Offset != 0 {
		t.Fatalf("Normalize = %+v", got)
	}
}
