package log

import "testing"

func TestPanelHeight(t *testing.T) {
	tests := []struct {
		screen, want int
	}{
		{10, 3},
		{24, 8},
		{60, 12},
	}
	for _, tt := range tests {
		if got := PanelHeight(tt.screen); got != tt.want {
			t.Errorf("PanelHeight(%d) = %d, want %d", tt.screen, got, tt.want)
		}
	}
}
