package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Activity", "Count", "Share"}
	rows := [][]string{
		{"Coding", "12", "97.5%"},
		{"Meditation", "3", "8.0%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Activity   Count Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Coding        12 97.5%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Meditation     3  8.0%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"코딩", "1"}}, map[int]bool{1: true})
	if lines[1] != "코딩 1" {
		t.Fatalf("expected wide runes to count as two columns: %q", lines[1])
	}
}

func TestRenderLogTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLogTable(&buf, logsFixture()[:2]); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Focus Logs\n") || !strings.Contains(out, "Coding") || !strings.Contains(out, "Phone") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	buf.Reset()
	if err := RenderLogTable(&buf, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if buf.String() != "No focus logs found.\n" {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}
