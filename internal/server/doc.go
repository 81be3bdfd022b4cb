// Package server implements the MCP (Model Context Protocol) server that
// exposes the colour detector to MCP clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image and get its metadata
//   - image_sample_hsv: HSV value and colour name at a pixel
//   - image_classify_hue: Colour name for a hue
//   - image_detect_colors: Annotated image with boxed, labelled regions
//
// Tools work on still images on disk, the same detector the live loop runs.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server.
// image_detect_colors draws on a private copy, so the cached image is never
// modified.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
