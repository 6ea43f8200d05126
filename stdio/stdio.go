// Package stdio runs an MCP protocol over newline-delimited JSON frames.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/BrewMyTech/grok-mcp/logger"
	"github.com/BrewMyTech/grok-mcp/mcp"

	"github.com/google/uuid"
)

const maxFrameSize = 10 << 20

// Writer serializes frames onto one stream.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

func (w *Writer) WriteMessage(msg any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(msg)
}

// Serve reads frames from r until EOF or ctx is done. Each frame is handled
// in its own goroutine; responses are written to w as they complete.
func Serve(ctx context.Context, r io.Reader, w io.Writer, p *mcp.Protocol) error {
	log := logger.NewLogger("STDIO", uuid.NewString())
	out := NewWriter(w)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	defer wg.Wait()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			frame := make([]byte, len(line))
			copy(frame, line)
			select {
			case lines <- frame:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-scanErr:
				default:
				}
				if err != nil && !errors.Is(err, io.EOF) {
					log.Error("stdio scanner error", "error", err.Error())
					return err
				}
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp := p.HandleFrame(ctx, frame)
				if resp == nil {
					return
				}
				if err := out.WriteMessage(resp); err != nil {
					log.Error("failed to write response", "error", err.Error())
				}
			}()
		}
	}
}

// ServeStdio runs p on the process's standard streams.
func ServeStdio(ctx context.Context, p *mcp.Protocol) error {
	return Serve(ctx, os.Stdin, os.Stdout, p)
}
