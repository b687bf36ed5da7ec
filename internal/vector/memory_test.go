package vector

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryIndex_AddSearch(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	ids := []string{"a", "b", "c"}
	if err := idx.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 {
		t.Errorf("Size=%d", idx.Size())
	}

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("order = %s, %s; want a, b", results[0].ID, results[1].ID)
	}
	if results[0].Score < results[1].Score {
		t.Error("scores should be descending")
	}

	all, _ := idx.Search(ctx, []float32{1, 0, 0}, 10)
	if len(all) != 3 {
		t.Errorf("k larger than size should return all, got %d", len(all))
	}
}

func TestMemoryIndex_tiesOrderedByID(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Add(ctx, []string{"z", "m", "a"}, [][]float32{{1, 0}, {1, 0}, {1, 0}})
	results, _ := idx.Search(ctx, []float32{1, 0}, 3)
	if results[0].ID != "a" || results[1].ID != "m" || results[2].ID != "z" {
		t.Errorf("tie order = %s %s %s", results[0].ID, results[1].ID, results[2].ID)
	}
}

func TestMemoryIndex_errors(t *testing.T) {
	if _, err := NewMemoryIndex(0); err == nil {
		t.Error("zero dimensions should fail")
	}
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	if err := idx.Add(ctx, []string{"a"}, [][]float32{{1, 0, 0}}); err == nil {
		t.Error("wrong dimension should fail")
	}
	if idx.Size() != 0 {
		t.Error("failed add should not insert")
	}
	if _, err := idx.Search(ctx, []float32{1}, 1); err == nil {
		t.Error("wrong query dimension should fail")
	}
	if res, err := idx.Search(ctx, []float32{1, 0}, 3); err != nil || len(res) != 0 {
		t.Errorf("empty index search = %v, %v", res, err)
	}
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vectors.bin")
	idx, _ := NewMemoryIndex(3)
	ctx := context.Background()
	_ = idx.Add(ctx, []string{"doc:1#0", "doc:1#1"}, [][]float32{{0.6, 0.8, 0}, {0, 0, 1}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadMemoryIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Dimensions() != 3 || loaded.Size() != 2 {
		t.Fatalf("loaded dims=%d size=%d", loaded.Dimensions(), loaded.Size())
	}
	res, _ := loaded.Search(ctx, []float32{0.6, 0.8, 0}, 1)
	if res[0].ID != "doc:1#0" || math.Abs(res[0].Score-1) > 1e-6 {
		t.Errorf("top = %+v", res[0])
	}
}

func TestLoadMemoryIndex_missing(t *testing.T) {
	_, err := LoadMemoryIndex(filepath.Join(t.TempDir(), "absent.bin"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestDecodeMemoryIndex_corrupt(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 0}})
	var buf bytes.Buffer
	if err := idx.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	full := buf.Bytes()

	cases := map[string][]byte{
		"empty":     {},
		"truncated": full[:len(full)-3],
		"trailing":  append(append([]byte{}, full...), 0x01),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeMemoryIndex(bytes.NewReader(data)); !errors.Is(err, ErrFormat) {
				t.Errorf("error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestBytesToFloat32Slice(t *testing.T) {
	in := []float32{1.5, -2, 0}
	out, err := BytesToFloat32Slice(Float32SliceToBytes(in))
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("got %v, want %v", out, in)
		}
	}
	if _, err := BytesToFloat32Slice([]byte{1, 2, 3}); !errors.Is(err, ErrFormat) {
		t.Errorf("odd length error = %v", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{2, 0}, []float32{5, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("parallel = %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1) > 1e-9 {
		t.Errorf("opposite = %f", got)
	}
	if got := CosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero vector = %f", got)
	}
}
