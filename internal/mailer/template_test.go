package mailer

import (
	"strings"
	"testing"
	"time"
)

func TestRenderConfirmation(t *testing.T) {
	body, err := RenderConfirmation(ConfirmationData{
		FullName:         "Sita Sharma",
		EntityTitle:      "Annual General Meeting",
		EntityTitleNe:    "वार्षिक साधारण सभा",
		EntityDate:       "Tuesday, 15 September 2026",
		EntityLocation:   "Pokhara",
		RegistrationCode: "EVT-2026-00042-AB3Z",
		VerifyURL:        "https://gandakiict.org.np/verify/EVT-2026-00042-AB3Z",
		QRDataURL:        "data:image/png;base64,iVBORw0KGgo=",
		FromName:         "Gandaki ICT Association",
	})
	if err != nil {
		t.Fatalf("RenderConfirmation: %v", err)
	}
	for _, want := range []string{
		"Sita Sharma",
		"Annual General Meeting",
		"वार्षिक साधारण सभा",
		"EVT-2026-00042-AB3Z",
		`img src="data:image/png;base64,iVBORw0KGgo="`,
		"https://gandakiict.org.np/verify/EVT-2026-00042-AB3Z",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
}

func TestRenderConfirmationOmitsEmptyOptional(t *testing.T) {
	body, err := RenderConfirmation(ConfirmationData{
		FullName:         "Ram Thapa",
		EntityTitle:      "ICT Workshop",
		EntityDate:       "Monday, 1 June 2026",
		RegistrationCode: "PRG-2026-00001-QQ7T",
		VerifyURL:        "https://gandakiict.org.np/verify/PRG-2026-00001-QQ7T",
		FromName:         "Gandaki ICT Association",
	})
	if err != nil {
		t.Fatalf("RenderConfirmation: %v", err)
	}
	if strings.Contains(body, "Venue") {
		t.Error("venue row rendered without a location")
	}
	if strings.Contains(body, "()") {
		t.Error("empty bilingual title rendered as empty parens")
	}
}

func TestFormatEntityDate(t *testing.T) {
	got := FormatEntityDate(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
	if got != "Tuesday, 15 September 2026" {
		t.Errorf("FormatEntityDate = %q", got)
	}
}
