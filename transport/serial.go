package transport

import (
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialPort adapts a tarm/serial port to the Transport interface.
// The port is opened with a short read timeout so TryReadByte never
// stalls the dispatch loop.
type SerialPort struct {
	port *serial.Port
	one  [1]byte
}

func OpenSerial(name string, baud int) (*SerialPort, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return &SerialPort{port: port}, nil
}

func (s *SerialPort) TryReadByte() (byte, error) {
	n, err := s.port.Read(s.one[:])
	if n == 1 {
		return s.one[0], nil
	}
	if err == nil || err == io.EOF {
		// timeout expired with nothing buffered
		return 0, ErrWouldBlock
	}
	return 0, err
}

func (s *SerialPort) Close() error {
	return s.port.Close()
}
