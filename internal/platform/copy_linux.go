//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile tries the most efficient copy method available on Linux,
// falling through on unsupported/cross-device errors: reflink, then
// copy_file_range, then sendfile, then pread/pwrite.
func CopyFile(params CopyParams) (CopyResult, error) {
	if params.Size == 0 {
		return CopyResult{Method: ReadWrite}, nil
	}

	//nolint:gosec // G115: fd values are small non-negative integers
	err := unix.IoctlFileClone(int(params.Dst.Fd()), int(params.Src.Fd()))
	if err == nil {
		return CopyResult{BytesWritten: params.Size, Method: Reflink}, nil
	}
	if !isFallbackErr(err) {
		return CopyResult{}, err
	}

	preallocate(params.Dst, params.Size)

	result, err := copyFileRange(params)
	if err == nil || result.BytesWritten > 0 || !isFallbackErr(err) {
		return result, err
	}

	result, err = copySendfile(params)
	if err == nil || result.BytesWritten > 0 || !isFallbackErr(err) {
		return result, err
	}

	return copyReadWrite(params)
}

func copyFileRange(params CopyParams) (CopyResult, error) {
	var roff, woff int64
	remaining := params.Size
	srcFd := int(params.Src.Fd()) //nolint:gosec // G115
	dstFd := int(params.Dst.Fd()) //nolint:gosec // G115

	var total int64
	for remaining > 0 {
		n, err := unix.CopyFileRange(srcFd, &roff, dstFd, &woff, int(min(remaining, chunkSize)), 0)
		if err != nil {
			return CopyResult{BytesWritten: total, Method: CopyFileRange}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}
	return CopyResult{BytesWritten: total, Method: CopyFileRange}, nil
}

func copySendfile(params CopyParams) (CopyResult, error) {
	var offset int64
	remaining := params.Size
	srcFd := int(params.Src.Fd()) //nolint:gosec // G115
	dstFd := int(params.Dst.Fd()) //nolint:gosec // G115

	var total int64
	for remaining > 0 {
		n, err := unix.Sendfile(dstFd, srcFd, &offset, int(min(remaining, chunkSize)))
		if err != nil {
			return CopyResult{BytesWritten: total, Method: Sendfile}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}
	return CopyResult{BytesWritten: total, Method: Sendfile}, nil
}

// preallocate reserves disk space without changing the file size, so a
// source that shrinks mid-copy never leaves a zero-padded tail. Errors are
// ignored as fallocate is not supported on all filesystems.
func preallocate(fd *os.File, size int64) {
	//nolint:errcheck,gosec // fallocate is advisory
	unix.Fallocate(int(fd.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size)
}
