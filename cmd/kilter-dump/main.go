// Command kilter-dump decodes a raw milter wire stream captured to a file
// (or piped on stdin) and logs each event and verdict it contains.
//
// It performs no I/O of its own beyond reading the input source: the input
// is expected to already be a sequence of length-prefixed milter frames, as
// would be captured off the wire between an MTA and a filter.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/domsekotill/kilter.protocol/buffer"
	"github.com/domsekotill/kilter.protocol/kilter"
	"github.com/domsekotill/kilter.protocol/message"
)

func main() {
	path := flag.String("file", "", "path to a captured milter frame stream; defaults to stdin")
	bufSize := flag.Int("bufsize", 256*1024, "decode buffer capacity in bytes")
	abortOnUnknown := flag.Bool("abort-on-unknown", false, "synthesise Abort on unrecognised message identifiers instead of logging them")
	flag.Parse()

	in := os.Stdin
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	var opts []kilter.Option
	if *abortOnUnknown {
		opts = append(opts, kilter.WithAbortOnUnknown())
	}
	proto := kilter.New(opts...)
	buf := buffer.New(*bufSize)

	if err := dump(in, buf, proto); err != nil && err != io.EOF {
		log.Fatal(err)
	}
}

func dump(in io.Reader, buf *buffer.Buffer, proto *kilter.FilterProtocol) error {
	chunk := make([]byte, 32*1024)
	for {
		n, err := readMore(in, buf, chunk)
		if n > 0 {
			logFrames(buf, proto)
		}
		if err != nil {
			return err
		}
	}
}

// readMore reads one chunk from in and appends it to buf.
func readMore(in io.Reader, buf *buffer.Buffer, chunk []byte) (int, error) {
	if max := buf.Available(); max < len(chunk) {
		chunk = chunk[:max]
	}
	if len(chunk) == 0 {
		return 0, fmt.Errorf("kilter-dump: decode buffer full without a complete frame; increase -bufsize")
	}
	n, err := in.Read(chunk)
	if n > 0 {
		if appendErr := buf.Append(chunk[:n]); appendErr != nil {
			return n, appendErr
		}
	}
	return n, err
}

func logFrames(buf *buffer.Buffer, proto *kilter.FilterProtocol) {
	for msg, err := range proto.ReadFrom(buf) {
		if err != nil {
			log.Printf("kilter-dump: %v", err)
			continue
		}
		describe(msg)
		msg.Release()
	}
}

func describe(msg message.Message) {
	if action, ok := kilter.DescribeAction(msg); ok {
		fmt.Printf("verdict: %s\n", action)
		return
	}
	if mod, ok := kilter.DescribeModification(msg); ok {
		fmt.Printf("modify: %s\n", mod)
		return
	}
	fmt.Printf("event: %T %+v\n", msg, msg)
}
