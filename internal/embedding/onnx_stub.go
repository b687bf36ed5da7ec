//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
)

// ErrONNXUnavailable is returned when the binary was built without CGO.
var ErrONNXUnavailable = errors.New("ONNX embedder requires CGO; build with CGO_ENABLED=1 and onnxruntime")

// ONNXEmbedder stub type when built without CGO (see onnx.go for the real implementation).
type ONNXEmbedder struct{}

// NewONNXEmbedder reports a missing vocabulary like the cgo build, and
// ErrONNXUnavailable otherwise.
func NewONNXEmbedder(cfg config.ONNXConfig) (*ONNXEmbedder, error) {
	if _, err := newONNXTokenizer(cfg); err != nil {
		return nil, err
	}
	return nil, ErrONNXUnavailable
}

func (e *ONNXEmbedder) Embed(context.Context, string) ([]float32, error) { return nil, ErrONNXUnavailable }

func (e *ONNXEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, ErrONNXUnavailable
}

func (e *ONNXEmbedder) Dimensions() int { return 0 }
func (e *ONNXEmbedder) Name() string    { return ProviderONNX }
func (e *ONNXEmbedder) Model() string   { return "" }
func (e *ONNXEmbedder) Close() error    { return nil }
