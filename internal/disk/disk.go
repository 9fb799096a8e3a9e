package disk

import "syscall"

// Usage returns used percentage, free bytes, and total bytes for the
// filesystem holding path
func Usage(path string) (usedPercent float64, freeBytes int64, totalBytes int64, err error) {
	var stat syscall.Statfs_t
	if err = syscall.Statfs(path, &stat); err != nil {
		return 0, 0, 0, err
	}

	totalBytes = int64(stat.Blocks) * int64(stat.Bsize)
	freeBytes = int64(stat.Bavail) * int64(stat.Bsize)
	used := totalBytes - freeBytes

	if totalBytes > 0 {
		usedPercent = (float64(used) / float64(totalBytes)) * 100.0
	}
	return usedPercent, freeBytes, totalBytes, nil
}

// FreePercent returns the percentage of free space on the filesystem
// holding path
func FreePercent(path string) (float64, error) {
	usedPercent, _, _, err := Usage(path)
	if err != nil {
		return 0, err
	}
	return 100.0 - usedPercent, nil
}
