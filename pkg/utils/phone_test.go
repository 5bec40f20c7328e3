package utils

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"seoul landline 9 digits", "021234567", "02-123-4567"},
		{"seoul landline 10 digits", "0212345678", "02-1234-5678"},
		{"seoul with dashes already", "02-1234-5678", "02-1234-5678"},
		{"mobile", "01012345678", "010-1234-5678"},
		{"mobile with spaces", "010 1234 5678", "010-1234-5678"},
		{"gyeonggi landline", "0311234567", "031-123-4567"},
		{"virtual 0507", "050712345678", "0507-1234-5678"},
		{"country code mobile", "+82-10-1234-5678", "010-1234-5678"},
		{"country code landline", "+82 2 1234 5678", "02-1234-5678"},
		{"unknown shape returned digits only", "12345", "12345"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhoneNumber(tt.input); got != tt.want {
				t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid mobile", "010-1234-5678", true},
		{"valid landline", "02-123-4567", true},
		{"too short", "0212345", false},
		{"too long", "0101234567890", false},
		{"repeated digit", "0000000000", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPhoneNumber(tt.input); got != tt.want {
				t.Errorf("ValidPhoneNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestComparePhoneNumbers(t *testing.T) {
	tests := []struct {
		name string
		p1   string
		p2   string
		want float64
	}{
		{"exact normalized", "010-1234-5678", "01012345678", 1.0},
		{"country code vs local", "+82-10-1234-5678", "010-1234-5678", 1.0},
		{"same last eight digits", "02-1234-5678", "031-1234-5678", 0.8},
		{"different numbers", "010-1234-5678", "010-8765-4321", 0.0},
		{"empty side", "", "010-1234-5678", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePhoneNumbers(tt.p1, tt.p2); got != tt.want {
				t.Errorf("ComparePhoneNumbers(%q, %q) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}
