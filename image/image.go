/*
Package image converts between raster images and pixel art.

Render and Encode draw a compressed literal as a paletted image, each cell
becoming a square of scale by scale pixels. Blank cells are left transparent.

Bitmap goes the other way, turning a small raster image into a source with
one label per distinct color. Images with more colors than allowed are first
reduced with a median cut quantizer. Fully transparent pixels become blank.
*/
package image

import "errors"

// Labels are assigned to colors in this order.
const Labels = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// DefaultColors is the number of colors Bitmap reduces an image to
	// unless told otherwise.
	DefaultColors = 16
	// MaxSize is the largest width or height Bitmap accepts.
	MaxSize = 400
)

var (
	errTooBig       = errors.New("image: image is too big")
	errEmpty        = errors.New("image: image is empty")
	errColors       = errors.New("image: invalid number of colors")
	errUnknownLabel = errors.New("image: label has no palette entry")
)
