package registrations

import (
	"strings"
	"testing"

	"github.com/gandaki-ict/backend/internal/models"
)

func TestNewCodeFormat(t *testing.T) {
	cases := []struct {
		typ    models.EntityType
		prefix string
	}{
		{models.EntityEvent, "EVT"},
		{models.EntityProgram, "PRG"},
	}
	for _, tc := range cases {
		code, err := NewCode(tc.typ, 2025)
		if err != nil {
			t.Fatalf("NewCode(%s): %v", tc.typ, err)
		}
		if !ValidCode(code) {
			t.Errorf("NewCode(%s) = %q, not a valid code", tc.typ, code)
		}
		if !strings.HasPrefix(code, tc.prefix+"-2025-") {
			t.Errorf("NewCode(%s) = %q, want prefix %s-2025-", tc.typ, code, tc.prefix)
		}
	}
}

func TestNewCodeSuffixAlphabet(t *testing.T) {
	// The suffix must never contain confusable characters.
	for i := 0; i < 200; i++ {
		code, err := NewCode(models.EntityEvent, 2025)
		if err != nil {
			t.Fatalf("NewCode: %v", err)
		}
		suffix := code[len(code)-4:]
		for _, ch := range suffix {
			if strings.ContainsRune("0O1I", ch) {
				t.Fatalf("suffix %q of %q contains confusable character %q", suffix, code, ch)
			}
			if !strings.ContainsRune(codeAlphabet, ch) {
				t.Fatalf("suffix %q of %q outside alphabet", suffix, code)
			}
		}
	}
}

func TestNewCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := NewCode(models.EntityEvent, 2025)
		if err != nil {
			t.Fatalf("NewCode: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code after %d draws: %s", i, code)
		}
		seen[code] = true
	}
}

func TestValidCode(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"EVT-2025-00042-AB3Z", true},
		{"PRG-2025-99999-ZZZZ", true},
		{"EVT-2025-0042-AB3Z", false},
		{"XYZ-2025-00042-AB3Z", false},
		{"EVT-2025-00042-AB3", false},
		{"evt-2025-00042-ab3z", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidCode(tc.in); got != tc.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExtractCode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"verify url", "https://gandakiict.org.np/verify/EVT-2025-00042-AB3Z", "EVT-2025-00042-AB3Z"},
		{"verify url with trailing path", "https://gandakiict.org.np/verify/PRG-2025-12345-QQ7T?src=qr", "PRG-2025-12345-QQ7T"},
		{"bare code", "EVT-2025-00042-AB3Z", "EVT-2025-00042-AB3Z"},
		{"lowercase code normalized", "evt-2025-00042-ab3z", "EVT-2025-00042-AB3Z"},
		{"surrounding whitespace", "  EVT-2025-00042-AB3Z\n", "EVT-2025-00042-AB3Z"},
		{"garbage passes through", "hello world", "hello world"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractCode(tc.in); got != tc.want {
				t.Errorf("ExtractCode(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
