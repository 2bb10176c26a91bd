package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgx/lang"
	"github.com/ardnew/cfgx/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdinKey  struct{}
	stdoutKey struct{}
)

// WithStdio returns a new context.Context whose commands read "-" sources
// from in and write results to out. Nil streams fall back to [os.Stdin] and
// [os.Stdout].
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	if in != nil {
		ctx = context.WithValue(ctx, stdinKey{}, in)
	}

	if out != nil {
		ctx = context.WithValue(ctx, stdoutKey{}, out)
	}

	return ctx
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok {
		return r
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Sources is the positional list of input files shared by every command that
// reads cfgx source. Files are concatenated in order, so later files may
// reference variables bound by earlier ones.
type Sources struct {
	Source []string `arg:"" default:"-" help:"Source file(s), or '-' for stdin." name:"source" optional:""`
}

// read concatenates all sources into a single string.
//
// Duplicate files are read once: paths are resolved through symlinks and
// compared by device and inode. All occurrences of "-" collapse into a single
// read of stdin at the position of the first occurrence.
func (s Sources) read(ctx context.Context) (string, error) {
	paths := s.Source
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		sb        strings.Builder
		readStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		var (
			data []byte
			err  error
		)

		switch {
		case path == stdinSource || isStdin(path):
			if readStdin {
				continue
			}

			readStdin = true
			data, err = io.ReadAll(stdinFrom(ctx))

		default:
			var unique bool

			data, unique, err = readUniqueFile(path, seen)
			if !unique && err == nil {
				log.DebugContext(ctx, "skipping duplicate source",
					slog.String("path", path))

				continue
			}
		}

		if err != nil {
			return "", ErrReadSource.
				With(slog.String("source", path)).
				Wrap(err)
		}

		sb.Write(data)

		// Keep the last token of one file from fusing with the first of the next.
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// readsStdin reports whether any source names standard input, either as
// "-" or as a path to the same file, such as /dev/stdin. An empty list does
// not count; callers that default to stdin handle that themselves.
func (s Sources) readsStdin() bool {
	for _, path := range s.Source {
		if path == stdinSource || isStdin(path) {
			return true
		}
	}

	return false
}

// model reads and parses all sources.
func (s Sources) model(ctx context.Context) (*lang.Model, error) {
	source, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	return lang.ParseString(ctx, source, lang.WithLogger(log.Default()))
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// isStdin reports whether path names the same file as standard input, such
// as /dev/stdin.
func isStdin(path string) bool {
	stdin, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return os.SameFile(stdin, info)
}

// readUniqueFile reads the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates, reporting
// unique == false for a file already read.
func readUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (data []byte, unique bool, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	data, err = os.ReadFile(resolved)

	return data, err == nil, err
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// Output selects where a command writes its result.
type Output struct {
	Output string `default:"-" help:"Output file, or '-' for stdout." short:"o"`
}

// open returns the writer for the selected output and a function that closes
// it. The close function reports write errors deferred by the file system.
func (o Output) open(ctx context.Context) (io.Writer, func() error, error) {
	if o.Output == "" || o.Output == stdinSource {
		return stdoutFrom(ctx), func() error { return nil }, nil
	}

	file, err := os.Create(o.Output)
	if err != nil {
		return nil, nil, ErrWriteOutput.
			With(slog.String("output", o.Output)).
			Wrap(err)
	}

	return file, file.Close, nil
}
