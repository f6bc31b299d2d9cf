package stimulus

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the sensor front ends the engine was built
// for.
const DefaultBaudRate = 115200

// serialBufferSize is the drain buffer between the port reader and
// the bench driver.
const serialBufferSize = 4096

// Source supplies one stimulus byte per tick. Next returns false when
// the source is exhausted or closed.
type Source interface {
	Next() (byte, bool)
}

// ByteSource replays an in-memory byte slice.
type ByteSource struct {
	data []byte
	pos  int
}

// NewByteSource wraps data, typically produced by Encode or ReadFile.
func NewByteSource(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

// Next returns the next byte, or false once the slice is exhausted.
func (s *ByteSource) Next() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++
	return b, true
}

// Remaining reports how many bytes are left.
func (s *ByteSource) Remaining() int {
	return len(s.data) - s.pos
}

// SerialSource streams sensor bytes from a serial port. Next blocks
// until a byte arrives, so a bench driven by a SerialSource runs at
// the sensor's pace rather than the simulated clock's.
type SerialSource struct {
	port io.ReadCloser
	ch   chan byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// OpenSerial opens the named port and starts draining it.
func OpenSerial(name string, baudRate int) (*SerialSource, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", name, err)
	}
	return newSerialSource(port, serialBufferSize), nil
}

func newSerialSource(port io.ReadCloser, bufSize int) *SerialSource {
	s := &SerialSource{
		port: port,
		ch:   make(chan byte, bufSize),
		done: make(chan struct{}),
	}
	go s.drain()
	return s
}

// Ports lists the serial ports available on this machine.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	return ports, nil
}

func (s *SerialSource) drain() {
	defer close(s.ch)
	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Next blocks for the next sensor byte; false means the source is
// closed and drained.
func (s *SerialSource) Next() (byte, bool) {
	b, ok := <-s.ch
	return b, ok
}

// Close shuts the port down and releases the drain goroutine even if
// its buffer is full; a blocked Next returns false.
func (s *SerialSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return s.port.Close()
}
