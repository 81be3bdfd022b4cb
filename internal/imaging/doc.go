// Package imaging provides the pixel-level operations used by the colour detector.
//
// This package converts frames to the HSV representation, builds binary masks from
// HSV bounds, samples single pixels, draws annotations onto frames, and loads still
// images from disk. All operations work with standard Go image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases rightward,
// and Y increases downward.
//
// # HSV Encoding
//
// HSV values use the compact 8-bit encoding common to camera pipelines:
//   - H: hue in half-degrees, 0-179 (0=red, 60=green, 120=blue)
//   - S: saturation, 0-255 (0=gray, 255=vivid)
//   - V: value, 0-255 (0=black, 255=full brightness)
//
// A full-circle hue h in degrees maps to round(h/2), wrapping 180 back to 0.
//
// # Masks
//
// Masks are *image.Gray images with the same bounds as their source. A pixel is
// "on" (255) when it matched and "off" (0) otherwise.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. HSV conversion, masking and
// sampling are stateless. An Annotator draws into the frame it was created for and
// must not be shared between goroutines.
package imaging
