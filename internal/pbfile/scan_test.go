package pbfile

import "testing"

func TestScanStripsTrailingBlankLines(t *testing.T) {
	lines, _, hadEmpty := Scan("META\nkey;value\n\n\n")
	if hadEmpty {
		t.Fatalf("expected no interior-empty-line diagnostic for only-trailing blanks")
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
}

func TestScanDropsAndCountsInteriorBlankLines(t *testing.T) {
	lines, diag, hadEmpty := Scan("META\n\nkey;value\nPROJECTS\n")
	if !hadEmpty {
		t.Fatalf("expected an interior-empty-line diagnostic")
	}
	if diag.Type != "empty lines removed" {
		t.Fatalf("expected empty-lines-removed diagnostic, got %q", diag.Type)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines after dropping the blank one, got %d: %v", len(lines), lines)
	}
}

func TestScanAcceptsCRLF(t *testing.T) {
	lines, _, _ := Scan("META\r\nkey;value\r\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines from CRLF input, got %d: %v", len(lines), lines)
	}
}
