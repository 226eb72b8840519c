//go:build !(linux || darwin || freebsd)

package storage

func diskUsage(path string) (DiskUsage, error) {
	return DiskUsage{}, ErrDiskUsageUnsupported
}
