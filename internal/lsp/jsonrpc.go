package lsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// maxFrameSize bounds a single message body
const maxFrameSize = 64 << 20

var errMissingContentLength = errors.New("missing Content-Length header")

// readFrame reads one Content-Length framed message body. A clean end of
// input before any header yields io.EOF.
func readFrame(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading frame header: %w", err)
	}
	value := header.Get("Content-Length")
	if value == "" {
		return nil, errMissingContentLength
	}
	length, err := strconv.Atoi(value)
	if err != nil || length < 0 || length > maxFrameSize {
		return nil, fmt.Errorf("invalid Content-Length %q", value)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("reading frame body: %w", err)
	}
	return body, nil
}

func writeFrame(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
