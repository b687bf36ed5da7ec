package embedding

// meanPool averages the token vectors in hidden (laid out [tokens][dims]) whose
// attention mask is set, writing the result into dst.
func meanPool(dst []float32, hidden []float32, mask []int64) {
	dims := len(dst)
	for i := range dst {
		dst[i] = 0
	}
	var count float32
	for tok, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[tok*dims : (tok+1)*dims]
		for i, v := range row {
			dst[i] += v
		}
		count++
	}
	if count == 0 {
		return
	}
	for i := range dst {
		dst[i] /= count
	}
}
