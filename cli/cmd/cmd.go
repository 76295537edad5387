package cmd

import (
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
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

type outputKey struct{}

// WithOutput returns a new context.Context whose commands print their
// results to w instead of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type inputKey struct{}

// WithInput returns a new context.Context whose commands read the stdin
// source "-" from r instead of os.Stdin.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// sourceFiles holds the distinct input files named on the command line.
type sourceFiles struct {
	read     []namedFile
	hasStdin bool
}

type namedFile struct {
	name string
	file *os.File
}

// IsZero reports whether there are no sources.
func (s *sourceFiles) IsZero() bool {
	return s == nil || (len(s.read) == 0 && !s.hasStdin)
}

// All yields each source name with a reader of its content, closing files
// as iteration moves past them. Stdin, if present, is yielded last.
func (s *sourceFiles) All(stdin io.Reader) iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		if s == nil {
			return
		}

		for i, f := range s.read {
			ok := yield(f.name, f.file)
			_ = f.file.Close()

			if !ok {
				for _, rest := range s.read[i+1:] {
					_ = rest.file.Close()
				}

				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, stdin)
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// buildSourceFiles constructs a sourceFiles from the given source paths.
// It deduplicates readers by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files.
func buildSourceFiles(sources []string) (*sourceFiles, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	var srcs sourceFiles

	srcs.read = make([]namedFile, 0, len(sources))
	seen := make(map[fileKey]struct{})

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		file, ok, err := openUniqueFile(src, seen)
		if err != nil {
			for _, f := range srcs.read {
				_ = f.file.Close()
			}

			return nil, err
		}

		if ok {
			srcs.read = append(srcs.read, namedFile{name: src, file: file})
		}
	}

	return &srcs, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate yields false and no error.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, ErrReadSource.Wrap(err)
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, ErrReadSource.Wrap(err)
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, ErrReadSource.Wrap(err)
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, ErrReadSource.Wrap(err)
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert // Dev is int32 on darwin
}
