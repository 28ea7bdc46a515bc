//go:build !linux

package platform

// CopyFile falls back to read/write where no kernel copy offload is wired.
func CopyFile(params CopyParams) (CopyResult, error) {
	return copyReadWrite(params)
}
