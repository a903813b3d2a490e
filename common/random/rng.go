package random

import (
	"crypto/rand"
	"io"

	E "github.com/pilnet/pil/common/exceptions"

	"lukechampine.com/blake3"
)

var System = rand.Reader

// Stream returns an unbounded reader of BLAKE3 output keyed from System.
func Stream() (io.Reader, error) {
	key := make([]byte, 32)
	_, err := io.ReadFull(System, key)
	if err != nil {
		return nil, E.Cause(err, "read key")
	}
	return blake3.New(32, key).XOF(), nil
}

// Fill overwrites b with output from a fresh Stream.
func Fill(b []byte) error {
	stream, err := Stream()
	if err != nil {
		return err
	}
	_, err = io.ReadFull(stream, b)
	return err
}
