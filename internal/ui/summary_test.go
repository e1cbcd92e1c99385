package ui

import (
	"strings"
	"testing"
)

func TestSummaryRenderPlain(t *testing.T) {
	s := Summary{Signatures: 3, Calls: 5, Direct: 2, Constructed: 2, Defaulted: 1}
	out := s.Render(false, 0)
	if !strings.Contains(out, "signatures 3   calls 5") {
		t.Fatalf("counts missing:\n%s", out)
	}
	if !strings.Contains(out, "all call sites resolved") {
		t.Fatalf("success line missing:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain render contains escape codes:\n%q", out)
	}
}

func TestSummaryRenderFailures(t *testing.T) {
	s := Summary{Calls: 2, Failed: 1, Errors: 3}
	out := s.Render(false, 0)
	if !strings.Contains(out, "failed 1   errors 3") {
		t.Fatalf("failure line missing:\n%s", out)
	}
	if strings.Contains(out, "all call sites resolved") {
		t.Fatalf("success line on a failing run:\n%s", out)
	}
}

func TestSummaryRenderWidth(t *testing.T) {
	s := Summary{Signatures: 1000000, Calls: 1000000, Direct: 1000000, Constructed: 1000000}
	out := s.Render(false, 20)
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 20 {
			t.Fatalf("line wider than 20 cells: %q", line)
		}
	}
}
