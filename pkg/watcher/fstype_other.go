//go:build !linux

package watcher

// DetectFilesystemType is only implemented on Linux. Elsewhere fsnotify
// is tried first and polling is used if it fails.
func DetectFilesystemType(string) FSType {
	return FSTypeUnknown
}
