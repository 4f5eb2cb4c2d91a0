package report

import (
	"bytes"
	"strings"
	"testing"

	"banketl/internal/records"
)

func TestPrint(t *testing.T) {
	t.Parallel()

	tbl := records.New("bank_name", "MC_USD_Billion")
	_ = tbl.Append("JPMorgan Chase", 432.92)
	_ = tbl.Append("Mystery Bank", nil)

	var buf bytes.Buffer
	out := Print(&buf, "Extracted", tbl)

	for _, want := range []string{"Extracted", "BANK_NAME", "JPMorgan Chase", "432.92", "Mystery Bank", "[2 rows x 2 columns]"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(buf.String(), "JPMorgan Chase") {
		t.Errorf("output mirror not written")
	}
}

func TestPrint_EmptyTable(t *testing.T) {
	t.Parallel()

	out := Print(&bytes.Buffer{}, "", records.New("a"))
	if !strings.Contains(out, "[0 rows x 1 columns]") {
		t.Fatalf("caption missing:\n%s", out)
	}
}
