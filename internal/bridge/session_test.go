package bridge

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

// wouldBlockError имитирует таймаут неблокирующего сокета.
type wouldBlockError struct{}

func (wouldBlockError) Error() string   { return "i/o timeout" }
func (wouldBlockError) Timeout() bool   { return true }
func (wouldBlockError) Temporary() bool { return true }

// fakeConn это net.Conn со скриптованным чтением и ограничиваемой
// записью. Пустой скрипт ведет себя как сокет без данных (would-block).
type fakeConn struct {
	reads  [][]byte // очередные порции данных для Read
	closed bool
	eof    bool // после исчерпания скрипта возвращать EOF вместо would-block

	written     bytes.Buffer
	maxPerWrite int // 0 - писать все сразу
}

func (c *fakeConn) Read(b []byte) (int, error) {
	if len(c.reads) == 0 {
		if c.eof {
			return 0, io.EOF
		}
		return 0, wouldBlockError{}
	}
	chunk := c.reads[0]
	n := copy(b, chunk)
	if n < len(chunk) {
		c.reads[0] = chunk[n:]
	} else {
		c.reads = c.reads[1:]
	}
	return n, nil
}

func (c *fakeConn) Write(b []byte) (int, error) {
	n := len(b)
	if c.maxPerWrite > 0 && n > c.maxPerWrite {
		n = c.maxPerWrite
		c.written.Write(b[:n])
		return n, wouldBlockError{}
	}
	c.written.Write(b)
	return n, nil
}

func (c *fakeConn) Close() error                       { c.closed = true; return nil }
func (c *fakeConn) LocalAddr() net.Addr                { return &net.TCPAddr{} }
func (c *fakeConn) RemoteAddr() net.Addr               { return &net.TCPAddr{} }
func (c *fakeConn) SetDeadline(t time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func TestReadOnceBudget(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), ReadChunk*2)
	conn := &fakeConn{reads: [][]byte{payload}}
	sess := newSession(conn)

	budget := ReadChunk + 100
	if err := sess.readOnce(&budget); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// One call reads at most one chunk.
	if len(sess.inbuf) != ReadChunk {
		t.Errorf("Expected %d bytes after first read, got %d", ReadChunk, len(sess.inbuf))
	}
	if budget != 100 {
		t.Errorf("Expected budget 100 left, got %d", budget)
	}

	// Second call is capped by the remaining budget.
	if err := sess.readOnce(&budget); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sess.inbuf) != ReadChunk+100 {
		t.Errorf("Expected %d bytes total, got %d", ReadChunk+100, len(sess.inbuf))
	}
	if budget != 0 {
		t.Errorf("Expected budget exhausted, got %d", budget)
	}

	// Exhausted budget: no read at all.
	if err := sess.readOnce(&budget); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sess.inbuf) != ReadChunk+100 {
		t.Error("Expected no read with zero budget")
	}
}

func TestReadOnceWouldBlock(t *testing.T) {
	sess := newSession(&fakeConn{})
	budget := 1000
	if err := sess.readOnce(&budget); err != nil {
		t.Errorf("Expected would-block to be silent, got %v", err)
	}
	if budget != 1000 {
		t.Errorf("Expected budget untouched, got %d", budget)
	}
}

func TestReadOncePeerClosed(t *testing.T) {
	sess := newSession(&fakeConn{eof: true})
	budget := 1000
	if err := sess.readOnce(&budget); err != errPeerClosed {
		t.Errorf("Expected errPeerClosed on EOF, got %v", err)
	}
}

func TestNextLine(t *testing.T) {
	sess := newSession(&fakeConn{})
	sess.inbuf = []byte("  {\"cmd\":\"ping\"}  \r\n{\"cmd\":\"sta")

	line, ok := sess.nextLine()
	if !ok {
		t.Fatal("Expected a complete line")
	}
	if string(line) != `{"cmd":"ping"}` {
		t.Errorf("Expected trimmed line, got %q", line)
	}

	// The second request is incomplete: wait for more bytes.
	if _, ok := sess.nextLine(); ok {
		t.Error("Expected no line for a partial request")
	}
	if string(sess.inbuf) != `{"cmd":"sta` {
		t.Errorf("Expected partial bytes kept, got %q", sess.inbuf)
	}
}

func TestFlushPartialWrite(t *testing.T) {
	conn := &fakeConn{maxPerWrite: 10}
	sess := newSession(conn)
	sess.enqueue([]byte(`{"ok":true,"pong":true}`))

	if err := sess.flush(); err != nil {
		t.Fatalf("Partial write must not be an error, got %v", err)
	}
	if sess.pending() == 0 {
		t.Fatal("Expected leftover bytes after partial write")
	}

	// Next frames drain the rest in order.
	conn.maxPerWrite = 0
	if err := sess.flush(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sess.pending() != 0 {
		t.Errorf("Expected everything flushed, %d bytes left", sess.pending())
	}
	if got := conn.written.String(); got != "{\"ok\":true,\"pong\":true}\n" {
		t.Errorf("Expected intact response on the wire, got %q", got)
	}
}
