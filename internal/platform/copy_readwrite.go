package platform

import (
	"sync"

	"golang.org/x/sys/unix"
)

// chunkSize bounds a single kernel copy call and sizes the pooled buffer.
const chunkSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, chunkSize)
		return &b
	},
}

// copyReadWrite copies data using pread/pwrite with a pooled buffer.
func copyReadWrite(params CopyParams) (CopyResult, error) {
	bufp := bufPool.Get().(*[]byte) //nolint:errcheck,forcetypeassert // pool only holds *[]byte
	defer bufPool.Put(bufp)
	buf := *bufp

	srcFd := int(params.Src.Fd()) //nolint:gosec // G115
	dstFd := int(params.Dst.Fd()) //nolint:gosec // G115

	var offset int64
	for offset < params.Size {
		toRead := int(min(params.Size-offset, chunkSize))

		n, err := unix.Pread(srcFd, buf[:toRead], offset)
		if err != nil {
			return CopyResult{BytesWritten: offset, Method: ReadWrite}, err
		}
		if n == 0 {
			break
		}

		written := 0
		for written < n {
			w, err := unix.Pwrite(dstFd, buf[written:n], offset+int64(written))
			if err != nil {
				return CopyResult{BytesWritten: offset + int64(written), Method: ReadWrite}, err
			}
			written += w
		}
		offset += int64(n)
	}

	return CopyResult{BytesWritten: offset, Method: ReadWrite}, nil
}

// CopyReadWrite copies with plain pread/pwrite, bypassing every fast path.
func CopyReadWrite(params CopyParams) (CopyResult, error) {
	return copyReadWrite(params)
}
