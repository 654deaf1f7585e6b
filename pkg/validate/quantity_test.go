package validate

import "testing"

func TestParseQuantity_CPUNormalizesToMillicores(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"200m", 200},
		{"2", 2000},
		{"0.5", 500},
		{"1500m", 1500},
	}
	for _, tc := range cases {
		got, err := ParseQuantity(tc.in, "cpu")
		if err != nil {
			t.Errorf("ParseQuantity(%q, cpu): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseQuantity(%q, cpu) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseQuantity_MemoryNormalizesToBytes(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"128Mi", 128 * 1024 * 1024},
		{"1Gi", 1024 * 1024 * 1024},
		{"500M", 500 * 1000 * 1000},
		{"1024", 1024},
	}
	for _, tc := range cases {
		got, err := ParseQuantity(tc.in, "memory")
		if err != nil {
			t.Errorf("ParseQuantity(%q, memory): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseQuantity(%q, memory) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseQuantity_QuotaPrefixedCPU(t *testing.T) {
	got, err := ParseQuantity("2", "requests.cpu")
	if err != nil {
		t.Fatal(err)
	}
	if got != 2000 {
		t.Errorf("ParseQuantity(2, requests.cpu) = %d, want 2000", got)
	}
}

func TestParseQuantity_Invalid(t *testing.T) {
	for _, in := range []string{"lots", "12xyz", ""} {
		if _, err := ParseQuantity(in, "cpu"); err == nil {
			t.Errorf("ParseQuantity(%q) should fail", in)
		}
	}
}
