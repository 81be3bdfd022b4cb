// Package detection finds coloured regions in a frame and labels them by hue.
//
// # Pipeline
//
// Each call to Detector.Detect runs the same fixed pipeline:
//
//  1. Convert the frame to 8-bit HSV (H 0-179, S 0-255, V 0-255)
//  2. For each entry of DetectionRanges (Red, Green, Blue, in that order), build a
//     binary mask of the pixels inside the range
//  3. Trace every border of the mask, outer borders and hole borders alike, with
//     Suzuki-Abe border following; runs of collinear points are compressed to
//     their end points
//  4. Drop contours whose polygon area is not strictly greater than MinRegionArea
//  5. Take the axis-aligned bounding rectangle of each survivor
//  6. Label it by classifying the hue at the rectangle centre with ClassifyHue
//
// Detector.Annotate runs Detect and then draws each region's rectangle and label
// onto the frame in detection order.
//
// # Two Colour Tables
//
// DetectionRanges decides which pixels form regions. NamingBands decides what a
// region is called. The tables are independent and do not agree at their edges:
// Green detection starts at hue 35 while Green naming starts above 35, and a
// region found by the Blue mask can be named Purple. A region's Range field
// records which mask produced it; its Label always comes from NamingBands.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
package detection
