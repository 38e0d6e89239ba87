package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := &Store{}
	if err := WithLogger(zerolog.New(&buf))(s); err != nil {
		t.Fatalf("WithLogger: %v", err)
	}

	s.Log.Info().Str("seam", "pg").Msg("adapter ready")
	if !strings.Contains(buf.String(), `"seam":"pg"`) {
		t.Fatalf("store logger did not reach the sink: %q", buf.String())
	}
}
