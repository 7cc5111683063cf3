package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/mmap"
)

// stdinName is the path argument that means "read standard input".
const stdinName = "-"

// ErrInputTooLarge is returned for inputs over the configured max_bytes.
var ErrInputTooLarge = errors.New("input too large")

type inputOptions struct {
	maxBytes int64 // 0 means no limit
	mmap     bool
	stdin    io.Reader
}

// readInput reads the file at name (or stdin for "-") and enforces opts.maxBytes.
func readInput(name string, opts inputOptions) (string, error) {
	if name == stdinName {
		return readLimited(name, opts.stdin, opts.maxBytes)
	}

	if opts.maxBytes > 0 {
		info, err := os.Stat(name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		if info.Size() > opts.maxBytes {
			return "", tooLarge(name, humanize.Bytes(uint64(info.Size())), opts.maxBytes)
		}
	}

	r, err := openInput(name, opts.mmap)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	defer r.Close()

	// The file may have grown since Stat.
	return readLimited(name, r, opts.maxBytes)
}

func readLimited(name string, r io.Reader, maxBytes int64) (string, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if maxBytes > 0 && int64(len(b)) > maxBytes {
		return "", tooLarge(name, "more than "+humanize.Bytes(uint64(maxBytes)), maxBytes)
	}
	return string(b), nil
}

func tooLarge(name, size string, maxBytes int64) error {
	return fmt.Errorf("%s: %w (%s, limit %s)", name, ErrInputTooLarge, size, humanize.Bytes(uint64(maxBytes)))
}

type mmapReadCloser struct {
	*io.SectionReader
	closer func() error
}

func (m *mmapReadCloser) Close() error {
	return m.closer()
}

func openInput(path string, useMmap bool) (io.ReadCloser, error) {
	if useMmap {
		r, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		return &mmapReadCloser{
			SectionReader: io.NewSectionReader(r, 0, int64(r.Len())),
			closer:        r.Close,
		}, nil
	}
	return os.Open(path)
}
