package report

import "testing"

func TestDelta(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		previous int
		want     string
	}{
		{"both zero", 0, 0, "0%"},
		{"from zero caps at plus hundred", 5, 0, "+100%"},
		{"to zero", 0, 5, "-100%"},
		{"doubled", 10, 5, "+100%"},
		{"halved", 3, 6, "-50%"},
		{"unchanged", 5, 5, "0%"},
		{"small increase", 6, 5, "+20%"},
		{"rounded", 7, 3, "+133%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Delta(tt.current, tt.previous); got != tt.want {
				t.Errorf("Delta(%d, %d) = %q, want %q", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}
