package validation

import "testing"

func TestIsValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{
			name:   "visa test card",
			number: "4242424242424242",
			valid:  true,
		},
		{
			name:   "valid with spaces",
			number: "4539 5787 6362 1486",
			valid:  true,
		},
		{
			name:   "valid with dashes",
			number: "5555-5555-5555-4444",
			valid:  true,
		},
		{
			name:   "invalid checksum",
			number: "4242424242424241",
			valid:  false,
		},
		{
			name:   "too short",
			number: "79927398713",
			valid:  false,
		},
		{
			name:   "contains letters",
			number: "4242a24242424242",
			valid:  false,
		},
		{
			name:   "empty string",
			number: "",
			valid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidCardNumber(tt.number)
			if got != tt.valid {
				t.Fatalf("IsValidCardNumber(%q) = %v, want %v", tt.number, got, tt.valid)
			}
		})
	}
}
