package core

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"episync/internal/log"
)

// MoveResult reports how a move was accomplished.
type MoveResult struct {
	Moved          bool
	FellBackToCopy bool
}

var renameFile = os.Rename

// DestinationPath re-roots src from srcRoot into dstRoot, preserving the
// relative subdirectory structure.
func DestinationPath(src, srcRoot, dstRoot string) (string, error) {
	rel, err := filepath.Rel(srcRoot, src)
	if err != nil {
		return "", fmt.Errorf("compute relative path of %s: %w", src, err)
	}
	return filepath.Join(dstRoot, rel), nil
}

// MoveFile moves src to dst, creating missing destination directories.
// A plain rename is attempted first; a cross-device failure falls back to a
// verified copy followed by source removal. The source file is never
// deleted unless the copy has been verified, so a failed fallback leaves
// the file where it was.
func MoveFile(src, dst string) (MoveResult, error) {
	dstDir := filepath.Dir(dst)
	if _, err := os.Stat(dstDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dstDir, 0755); err != nil {
			log.LogCreateDir(dstDir, false, err)
			return MoveResult{}, fmt.Errorf("create destination directory: %w", err)
		}
		log.LogCreateDir(dstDir, true, nil)
	}

	renameErr := renameFile(src, dst)
	if renameErr == nil {
		log.LogMove(src, dst, true, nil)
		return MoveResult{Moved: true}, nil
	}

	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		log.LogMove(src, dst, false, renameErr)
		return MoveResult{}, fmt.Errorf("move %s: %w", src, renameErr)
	}

	if err := copyFile(src, dst); err != nil {
		log.LogCopy(src, dst, false, err)
		return MoveResult{}, fmt.Errorf("copy %s across devices: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		log.LogCopy(src, dst, false, err)
		return MoveResult{Moved: true, FellBackToCopy: true},
			fmt.Errorf("remove source after copy, duplicate remains at %s: %w", src, err)
	}
	log.LogCopy(src, dst, true, nil)
	return MoveResult{Moved: true, FellBackToCopy: true}, nil
}

// copyFile copies src to dst and verifies size and content hash against
// the destination as written to disk before returning. Mode and
// modification time are carried over. The partial destination is removed
// on any failure.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	srcHasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if err := verifyCopy(dst, srcHasher.Sum(nil), srcInfo.Size()); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		// Content is verified; losing the timestamp is not worth failing the move.
		fmt.Fprintf(os.Stderr, "Warning: failed to preserve modification time of %s: %v\n", dst, err)
	}
	return nil
}

// verifyCopy re-reads path from disk and compares its size and sha256
// against the source's. Hashing the destination's own bytes is the only
// check that catches corruption introduced below the write path.
func verifyCopy(path string, wantSum []byte, wantSize int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen destination for verification: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return fmt.Errorf("read back destination: %w", err)
	}
	if n != wantSize {
		return fmt.Errorf("verify size mismatch: source %d bytes, destination %d bytes", wantSize, n)
	}
	if !bytes.Equal(h.Sum(nil), wantSum) {
		return fmt.Errorf("verify hash mismatch: destination differs from source")
	}
	return nil
}
