package transfer

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// HashFile computes the BLAKE3 hash of the file at path, returning the hex-encoded digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 64*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// identical reports whether dst is a regular file holding the same bytes as
// src. A size mismatch settles it without reading either file.
func identical(src string, srcInfo os.FileInfo, dst string) bool {
	dstInfo, err := os.Stat(dst)
	if err != nil || !dstInfo.Mode().IsRegular() || dstInfo.Size() != srcInfo.Size() {
		return false
	}
	srcSum, err := HashFile(src)
	if err != nil {
		return false
	}
	dstSum, err := HashFile(dst)
	if err != nil {
		return false
	}
	return srcSum == dstSum
}
