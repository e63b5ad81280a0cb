package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/veridex/veridex/internal/model"
)

// mockVerifier implements ClaimVerifier
type mockVerifier struct {
	calls   int32
	failFor string
}

func (m *mockVerifier) Verify(ctx context.Context, claim string) *model.VerificationResult {
	atomic.AddInt32(&m.calls, 1)

	if claim == m.failFor {
		return &model.VerificationResult{
			Claim:   claim,
			Success: false,
			Verdict: model.VerdictError,
			Error:   "provider unavailable",
		}
	}
	return &model.VerificationResult{
		Claim:      claim,
		Success:    true,
		Verdict:    model.VerdictTrue,
		VerifiedAt: time.Now(),
	}
}

func TestBatchProcessor_ProcessClaims(t *testing.T) {
	verifier := &mockVerifier{}
	processor := NewBatchProcessor(verifier, 3)

	claims := []string{
		"the earth orbits the sun",
		"water boils at 100c at sea level",
		"the moon is made of cheese",
	}

	results := processor.ProcessClaims(context.Background(), claims)

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	if atomic.LoadInt32(&verifier.calls) != int32(len(claims)) {
		t.Errorf("expected %d verifier calls, got %d", len(claims), verifier.calls)
	}
	for _, result := range results {
		if result.GetError() != nil {
			t.Errorf("unexpected error for %q: %v", result.Claim, result.GetError())
		}
	}
}

func TestBatchProcessor_FailedClaimDoesNotBlockOthers(t *testing.T) {
	verifier := &mockVerifier{failFor: "bad claim"}
	processor := NewBatchProcessor(verifier, 2)

	results := processor.ProcessClaims(context.Background(), []string{
		"good claim one", "bad claim", "good claim two",
	})

	errCount := 0
	okCount := 0
	for _, result := range results {
		if result.GetError() != nil {
			errCount++
			if !strings.Contains(result.GetError().Error(), "provider unavailable") {
				t.Errorf("unexpected error message: %v", result.GetError())
			}
		} else {
			okCount++
		}
	}

	if errCount != 1 || okCount != 2 {
		t.Errorf("expected 1 failure and 2 successes, got %d and %d", errCount, okCount)
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(&mockVerifier{}, 2)

	results := processor.ProcessClaims(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadClaimsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claims.txt")

	content := `# fact-check backlog
the earth orbits the sun

the moon is made of cheese
The Earth orbits the sun
the earth orbits the sun
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"the earth orbits the sun", "the moon is made of cheese"}
	if len(claims) != len(want) {
		t.Fatalf("expected %d claims, got %d: %v", len(want), len(claims), claims)
	}
	for i := range want {
		if claims[i] != want[i] {
			t.Errorf("claim %d: expected %q, got %q", i, want[i], claims[i])
		}
	}
}

func TestReadClaimsFromFile_Missing(t *testing.T) {
	if _, err := ReadClaimsFromFile("/nonexistent/claims.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
