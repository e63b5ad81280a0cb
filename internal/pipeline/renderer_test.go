package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/veridex/veridex/internal/model"
)

func sampleResult() *model.VerificationResult {
	return &model.VerificationResult{
		Claim:       "brazil is the largest coffee producer",
		Success:     true,
		Verdict:     model.VerdictTrue,
		FinalAnswer: "The claim is TRUE based on the evidence.",
		Citations: []model.Citation{
			{Source: "coffee.md", RelevanceScore: 0.85},
		},
		VerifiedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Duration:   1200 * time.Millisecond,
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	if err := NewRenderer(true).RenderJSON(sampleResult(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var decoded model.VerificationResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON written: %v", err)
	}
	if decoded.Verdict != model.VerdictTrue {
		t.Errorf("expected TRUE verdict round-tripped, got %s", decoded.Verdict)
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.md")

	if err := NewRenderer(true).RenderMarkdown(sampleResult(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	report := string(data)

	for _, want := range []string{
		"# Claim Verification Report",
		"**Verdict**: TRUE",
		"The claim is TRUE based on the evidence.",
		"coffee.md",
		"_Generated by veridex",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.md")

	if err := NewRenderer(false).RenderMarkdown(sampleResult(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "_Generated by veridex") {
		t.Error("expected no footer")
	}
}
