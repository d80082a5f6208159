// Package thumbnails generates the preview images served next to the
// gallery.
//
// A Generator covers the batch flow used by the site: a solid placeholder
// for videos without a thumbnail, downscaled WebP copies of source images,
// and one still frame per video, all written to the thumbnails directory as
// <stem>.webp. Existing outputs are left alone so reruns only fill gaps.
//
// ExtractVideoThumbnail and ProcessVideos implement the richer per-video
// variant: frame selection by timestamp, optional width resize, optional
// colour enhancement and a choice of webp, jpg or png output written as
// <stem>_thumbnail.<format>.
//
// Video frames come from a media.FrameSource, normally ffprobe and ffmpeg.
package thumbnails
