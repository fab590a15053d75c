// Package server implements the MCP (Model Context Protocol) server for shape
// detection.
//
// The server exposes the detection pipeline and a few supporting image tools
// to MCP clients, so an assistant can find pink and red triangles, rectangles
// and circles in camera frames or photos, see why something was missed, and
// drive an overlay display from the result.
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
// Image information and inspection:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_evict: Drop a path (or everything) from the image cache
//   - image_sample_color: Color at one or more pixels, with HSV and matching profiles
//   - image_crop: Extract a rectangular region
//
// Shape detection:
//   - shapes_profiles: List detection profiles
//   - shapes_detect: Detect and classify shapes
//   - shapes_mask: Show the color mask a profile produces
//   - shapes_annotate: Draw detected shapes onto the image
//   - shapes_command: Reduce a frame to an overlay command and track it per stream
//
// Every tool that reads an image takes either "path" or "image_base64".
//
// # Image Caching
//
// Images given by path are cached and reused across tool calls, so
// detect, mask and annotate on the same photo decode it once. Inline images
// are decoded per call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	log, _ := logging.New(cfg.LogLevel, cfg.LogFormat)
//	srv := server.New(log, cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server error")
//	}
package server
