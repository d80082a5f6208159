// Package convert turns raster images into the site's published WebP format.
//
// A single file is converted with File; a directory tree with Directory.
// Output is written next to the source as <stem>.webp through a temporary
// file that is renamed into place, so a partially written image is never
// visible to the web server. In replace mode the source is deleted only
// after the output has been confirmed on disk.
//
// When libvips has been started (media.InitVips) the conversion runs through
// govips; otherwise images are decoded with imaging and encoded with
// chai2010/webp.
package convert
