// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBufferInterface verifies that bytebufferpool.ByteBuffer satisfies Buffer interface
func TestBufferInterface(t *testing.T) {
	tests := []struct {
		name  string
		setup func(buf Buffer)
		check func(t *testing.T, buf Buffer)
	}{
		{
			name: "Write and WriteString",
			setup: func(buf Buffer) {
				buf.Write([]byte("hello"))
				buf.WriteString(" pattern")
				buf.WriteByte('!')
			},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, "hello pattern!", buf.String())
				assert.Equal(t, 14, buf.Len())
			},
		},
		{
			name: "SetString replaces content",
			setup: func(buf Buffer) {
				buf.WriteString("initial")
				buf.SetString("replaced")
			},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, "replaced", buf.String())
			},
		},
		{
			name: "Set replaces content",
			setup: func(buf Buffer) {
				buf.WriteString("initial")
				buf.Set([]byte("bytes"))
			},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, []byte("bytes"), buf.Bytes())
			},
		},
		{
			name: "Reset clears buffer",
			setup: func(buf Buffer) {
				buf.WriteString(strings.Repeat("x", 4096))
				buf.Reset()
			},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, 0, buf.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Default.Get()
			defer func() {
				buf.Reset()
				Default.Put(buf)
			}()

			tt.setup(buf)
			tt.check(t, buf)
		})
	}
}

func TestBufferReadFromAndWriteTo(t *testing.T) {
	buf := Default.Get()
	defer func() {
		buf.Reset()
		Default.Put(buf)
	}()

	data := "---\nname: contact-form\n---\n# Contact form\n"
	n, err := buf.ReadFrom(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	var out bytes.Buffer
	written, err := buf.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), written)
	assert.Equal(t, data, out.String())
}

func TestBufferReadFromError(t *testing.T) {
	buf := Default.Get()
	defer func() {
		buf.Reset()
		Default.Put(buf)
	}()

	_, err := buf.ReadFrom(&errorReader{err: io.ErrUnexpectedEOF})
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestPoolPutNonByteBuffer(t *testing.T) {
	assert.NotPanics(t, func() {
		Default.Put(&mockBuffer{buf: bytes.NewBuffer(nil)})
	})
}

// TestGoroutineCooking verifies the pool is safe for concurrent use.
func TestGoroutineCooking(t *testing.T) {
	const goroutines = 50
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := range goroutines {
		go func(id int) {
			defer wg.Done()
			for range iterations {
				buf := Default.Get()
				buf.WriteString("goroutine #")
				buf.WriteByte(byte('0' + (id % 10)))
				assert.Equal(t, 12, buf.Len())
				buf.Reset()
				Default.Put(buf)
			}
		}(i)
	}

	wg.Wait()
}

func TestEncodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		value any
		check func(t *testing.T, out []byte)
	}{
		{
			name:  "indented object without trailing newline",
			value: map[string]any{"name": "contact-form", "score": 175},
			check: func(t *testing.T, out []byte) {
				assert.True(t, bytes.HasPrefix(out, []byte("{\n  ")), "expected indented output, got %s", out)
				assert.False(t, bytes.HasSuffix(out, []byte("\n")))
			},
		},
		{
			name:  "html characters are kept verbatim",
			value: map[string]string{"content": "<form action=\"/submit\">&</form>"},
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), `<form action=\"/submit\">&</form>`)
			},
		},
		{
			name:  "round trips",
			value: []string{"a", "b"},
			check: func(t *testing.T, out []byte) {
				var got []string
				require.NoError(t, json.Unmarshal(out, &got))
				assert.Equal(t, []string{"a", "b"}, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := EncodeJSON(tt.value)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestEncodeJSONError(t *testing.T) {
	_, err := EncodeJSON(map[string]any{"fn": func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestEncodeJSONResultSurvivesPoolReuse(t *testing.T) {
	first, err := EncodeJSON("first")
	require.NoError(t, err)

	_, err = EncodeJSON(strings.Repeat("second", 64))
	require.NoError(t, err)

	assert.Equal(t, `"first"`, string(first))
}
