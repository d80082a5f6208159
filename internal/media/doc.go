// Package media provides the image and video primitives used by the batch
// tools: constrained decoding, WebP/JPEG/PNG encoding, colour enhancement,
// and single-frame extraction from videos through ffprobe and ffmpeg.
//
// WebP is encoded with libvips when InitVips has been called and falls back
// to the chai2010/webp encoder otherwise.
package media
