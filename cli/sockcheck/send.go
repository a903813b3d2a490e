//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"bytes"
	"time"

	"github.com/pilnet/pil/common/buf"
	"github.com/pilnet/pil/common/byteformats"
	E "github.com/pilnet/pil/common/exceptions"
	M "github.com/pilnet/pil/common/metadata"
	"github.com/pilnet/pil/common/random"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/blake3"
)

func newSendCommand() *cobra.Command {
	var (
		timeout time.Duration
		size    byteformats.MemoryBytes
	)
	size.Set("1MB")
	command := &cobra.Command{
		Use:   "send address:port",
		Short: "Send a random payload through an echo server and verify it",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("timeout") {
				timeout = config.Connect.Timeout.Build()
			}
			err := runSend(args[0], size.Int(), timeout)
			if err != nil {
				logrus.Fatal(err)
			}
		},
	}
	command.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Set the connect timeout.")
	command.Flags().VarP(&size, "size", "s", "Set the payload size, e.g. 64k or 4MB.")
	return command
}

func runSend(server string, size int, timeout time.Duration) error {
	address, err := M.ParseAddrPort(server)
	if err != nil {
		return err
	}
	payload := make([]byte, size)
	err = random.Fill(payload)
	if err != nil {
		return err
	}
	expected := blake3.Sum256(payload)

	conn, err := dial(address, timeout)
	if err != nil {
		return E.Cause(err, "connect to ", address)
	}
	defer conn.Close()

	start := time.Now()
	hasher := blake3.New(32, nil)
	var received int
	var group errgroup.Group
	group.Go(func() error {
		err := sendAll(conn, payload)
		if err != nil {
			return E.Cause(err, "send")
		}
		return conn.ShutdownSend()
	})
	group.Go(func() error {
		buffer := buf.Get()
		defer buf.Put(buffer)
		for received < size {
			n, err := conn.Receive(buffer, 0)
			if err != nil {
				return E.Cause(err, "receive")
			}
			if n == 0 {
				return E.New("connection closed after ", received, " of ", size, " bytes")
			}
			hasher.Write(buffer[:n])
			received += n
		}
		return nil
	})
	err = group.Wait()
	if err != nil {
		return err
	}
	if !bytes.Equal(expected[:], hasher.Sum(nil)) {
		return E.New("payload digest mismatch")
	}
	logrus.Info("echoed ", byteformats.FormatIBytes(uint64(size)), " in ", time.Since(start).Round(time.Millisecond), ", digest ok")
	return nil
}
