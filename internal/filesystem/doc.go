/*
Package filesystem provides the filesystem primitives used by the gallery and
the batch tools.

# Retries

The media directories are often network mounts. StatWithRetry and
ReadDirWithRetry wrap os.Stat and os.ReadDir and retry with exponential
backoff when the error is ESTALE (stale file handle). Any other error,
including fs.ErrNotExist, is returned immediately so callers can distinguish
a missing directory from an empty one.

	info, err := filesystem.StatWithRetry(dir, filesystem.DefaultRetryConfig())

Defaults: 3 retries, 50ms initial backoff, 500ms cap.

# Atomic writes

WriteFileAtomic writes through a temporary file in the destination directory
and renames it into place, so an interrupted conversion never leaves a
truncated output under the final name.

# Metrics

Operations are reported to the Observer installed with SetObserver, labelled
with the volume name resolved by the VolumeResolver. With no observer
installed nothing is recorded.
*/
package filesystem
