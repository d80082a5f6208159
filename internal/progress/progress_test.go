package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCounterDisabledForNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tests := []struct {
		name string
		c    *Counter
	}{
		{"file", New(f)},
		{"buffer", New(&bytes.Buffer{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.c.Enabled() {
				t.Fatal("counter enabled for a non-terminal writer")
			}
			tt.c.Update("images", 1, 2)
			tt.c.Done()
		})
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("wrote %d bytes to a non-terminal", info.Size())
	}
}

func TestCounterUpdate(t *testing.T) {
	var buf bytes.Buffer
	c := &Counter{w: &buf, enabled: true}

	c.Done()
	if buf.Len() != 0 {
		t.Fatalf("Done before Update wrote %q", buf.String())
	}

	c.Update("videos", 1, 4)
	c.Update("videos", 0, 0)
	c.Done()

	want := "\r\033[Kvideos: 1/4 (25%)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
