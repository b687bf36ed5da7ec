package embedding

import "testing"

func TestMeanPool(t *testing.T) {
	hidden := []float32{
		1, 2,
		3, 4,
		100, 100,
	}
	dst := make([]float32, 2)
	meanPool(dst, hidden, []int64{1, 1, 0})
	if dst[0] != 2 || dst[1] != 3 {
		t.Errorf("meanPool = %v, want [2 3]", dst)
	}

	meanPool(dst, hidden, []int64{0, 0, 0})
	if dst[0] != 0 || dst[1] != 0 {
		t.Errorf("all-masked should give zeros, got %v", dst)
	}
}
