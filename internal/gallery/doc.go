// Package gallery lists the published images and videos for the gallery API.
//
// Every call reads the media directories afresh; nothing is cached. Files are
// matched by the target extension only (.webp for images, .mp4 for videos),
// sorted by filename, and numbered by their position in that full sorted
// list, so ids stay stable across pages while the directory is unchanged.
//
// A missing directory is reported through PageResult.NotFound rather than an
// error. An empty directory is just an empty result.
package gallery
