// Package mediatypes holds the dependency-free media vocabulary shared by the
// gallery service and the batch tools: media kinds, the published target
// formats and the source extension allowlists.
//
// The site publishes exactly one image format and one video format:
//
//	mediatypes.TargetImageExt // ".webp"
//	mediatypes.TargetVideoExt // ".mp4"
//
// Extensions passed to the helpers must be lowercase and include the leading
// dot, as returned by Ext.
package mediatypes
