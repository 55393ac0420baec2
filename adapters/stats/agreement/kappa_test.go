package agreement

import (
	"errors"
	"math"
	"testing"

	"godiag/domain/core"
	"godiag/domain/diagnostics"
)

func TestKappa_NoAgreementBeyondChance(t *testing.T) {
	est := NewEstimator()

	// Balanced marginals with half the calls matching: kappa is exactly 0
	raterA := []int{1, 1, 0, 0}
	raterB := []int{1, 0, 0, 1}

	result, err := est.Kappa(raterA, raterB, 0.95)
	if err != nil {
		t.Fatalf("kappa: %v", err)
	}

	if math.Abs(result.Kappa) > 1e-12 {
		t.Errorf("kappa = %g, want 0", result.Kappa)
	}
	if result.ObservedAgreement != 0.5 {
		t.Errorf("observed = %g, want 0.5", result.ObservedAgreement)
	}
	if result.ExpectedAgreement != 0.5 {
		t.Errorf("expected = %g, want 0.5", result.ExpectedAgreement)
	}
	if result.SampleSize != 4 {
		t.Errorf("sample size = %d, want 4", result.SampleSize)
	}
}

func TestKappa_PerfectAgreement(t *testing.T) {
	est := NewEstimator()
	seq := []int{0, 1, 0, 1, 1, 0}

	result, err := est.Kappa(seq, seq, 0.95)
	if err != nil {
		t.Fatalf("kappa: %v", err)
	}

	if result.Kappa != 1.0 {
		t.Errorf("kappa = %g, want 1", result.Kappa)
	}
	if result.Interpretation != diagnostics.AgreementVeryGood {
		t.Errorf("interpretation = %q, want %q", result.Interpretation, diagnostics.AgreementVeryGood)
	}
}

func TestKappa_Symmetric(t *testing.T) {
	est := NewEstimator()
	raterA := []int{1, 0, 1, 1, 0, 0, 1, 0}
	raterB := []int{1, 1, 1, 0, 0, 1, 1, 0}

	ab, err := est.Kappa(raterA, raterB, 0.95)
	if err != nil {
		t.Fatalf("kappa(a,b): %v", err)
	}
	ba, err := est.Kappa(raterB, raterA, 0.95)
	if err != nil {
		t.Fatalf("kappa(b,a): %v", err)
	}

	if math.Abs(ab.Kappa-ba.Kappa) > 1e-12 {
		t.Errorf("kappa not symmetric: %g vs %g", ab.Kappa, ba.Kappa)
	}
	if math.Abs(ab.StandardError-ba.StandardError) > 1e-12 {
		t.Errorf("SE not symmetric: %g vs %g", ab.StandardError, ba.StandardError)
	}
}

func TestKappa_BothRatersConstant(t *testing.T) {
	est := NewEstimator()

	result, err := est.Kappa([]int{1, 1, 1}, []int{1, 1, 1}, 0.95)
	if err != nil {
		t.Fatalf("kappa: %v", err)
	}

	// Single shared category: expected agreement saturates, perfect
	// agreement pins kappa to 1 with zero standard error
	if result.Kappa != 1.0 {
		t.Errorf("kappa = %g, want 1", result.Kappa)
	}
	if result.StandardError != 0 {
		t.Errorf("SE = %g, want 0", result.StandardError)
	}
}

func TestKappa_CIUpperCapped(t *testing.T) {
	est := NewEstimator()
	raterA := []int{1, 0, 1, 0, 1, 1, 0, 0, 1, 0}
	raterB := []int{1, 0, 1, 0, 1, 1, 0, 0, 1, 1}

	result, err := est.Kappa(raterA, raterB, 0.99)
	if err != nil {
		t.Fatalf("kappa: %v", err)
	}

	if result.ConfidenceInterval.Upper > 1.0 {
		t.Errorf("CI upper = %g, want <= 1", result.ConfidenceInterval.Upper)
	}
	if !result.ConfidenceInterval.Contains(result.Kappa) {
		t.Errorf("kappa %g outside CI [%g, %g]", result.Kappa,
			result.ConfidenceInterval.Lower, result.ConfidenceInterval.Upper)
	}
}

func TestKappa_MultiCategory(t *testing.T) {
	est := NewEstimator()

	// Three categories with strong but imperfect agreement
	raterA := []int{0, 0, 1, 1, 2, 2, 0, 1, 2}
	raterB := []int{0, 0, 1, 1, 2, 2, 1, 1, 2}

	result, err := est.Kappa(raterA, raterB, 0.95)
	if err != nil {
		t.Fatalf("kappa: %v", err)
	}

	if result.Kappa <= 0.6 || result.Kappa >= 1.0 {
		t.Errorf("kappa = %g, want strong agreement in (0.6, 1)", result.Kappa)
	}
	if result.ObservedAgreement != 8.0/9.0 {
		t.Errorf("observed = %g, want %g", result.ObservedAgreement, 8.0/9.0)
	}
}

func TestKappa_LengthMismatch(t *testing.T) {
	est := NewEstimator()
	_, err := est.Kappa([]int{1, 0}, []int{1}, 0.95)
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("error = %v, want ErrLengthMismatch", err)
	}
}

func TestKappa_EmptyInput(t *testing.T) {
	est := NewEstimator()
	_, err := est.Kappa(nil, nil, 0.95)
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("error = %v, want ErrEmptyInput", err)
	}
}

func TestKappa_DefaultConfidence(t *testing.T) {
	est := NewEstimator()
	result, err := est.Kappa([]int{1, 0, 1}, []int{1, 0, 0}, 0)
	if err != nil {
		t.Fatalf("kappa: %v", err)
	}
	if result.ConfidenceInterval.Level != DefaultConfidenceLevel {
		t.Errorf("level = %g, want %g", result.ConfidenceInterval.Level, DefaultConfidenceLevel)
	}
}
