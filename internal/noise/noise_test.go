package noise

import (
	"math"
	"testing"
)

func TestUniformSameSeedSameSequence(t *testing.T) {
	a := NewUniform(12345)
	b := NewUniform(12345)
	for i := 0; i < 1000; i++ {
		va, vb := a(), b()
		if va != vb {
			t.Fatalf("sequences diverged at %d: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("sample %d out of [0,1): %v", i, va)
		}
	}
}

func TestUniformDifferentSeedsDiffer(t *testing.T) {
	a := NewUniform(1)
	b := NewUniform(2)
	same := true
	for i := 0; i < 100; i++ {
		if a() != b() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical sequences")
	}
}

func TestGaussianMoments(t *testing.T) {
	g := NewGaussian(42)
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := g()
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	if math.Abs(mean) > 0.05 {
		t.Fatalf("mean too far from 0: %v", mean)
	}
	if variance < 0.9 || variance > 1.1 {
		t.Fatalf("variance too far from 1: %v", variance)
	}
}

func TestGaussianDeterministic(t *testing.T) {
	a := NewGaussian(7)
	b := NewGaussian(7)
	for i := 0; i < 100; i++ {
		if a() != b() {
			t.Fatalf("gaussian sequences diverged at %d", i)
		}
	}
}

func TestZero(t *testing.T) {
	for i := 0; i < 10; i++ {
		if Zero() != 0 {
			t.Fatal("zero sampler returned non-zero")
		}
	}
}
