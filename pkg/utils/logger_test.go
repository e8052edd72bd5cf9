package utils

import "testing"

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		if err != nil {
			t.Fatalf("debug=%v: %v", debug, err)
		}
		if logger == nil {
			t.Fatalf("debug=%v: nil logger", debug)
		}
	}
}
