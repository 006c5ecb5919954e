// Package server implements the MCP (Model Context Protocol) server for the
// color adjacency tools.
//
// The server exposes the adjacency analyzer and its image helpers as JSON-RPC
// 2.0 tools so that a tracing pipeline, or any MCP-compatible client, can
// ask which colors of a rendered image never touch each other.
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
// Request lines may be very large because pixel payloads are passed inline.
// The maximum line size is config.Config.MaxRequestBytes.
//
// # Available Tools
//
// Adjacency Analysis:
//   - adjacency_analyze: Complement graph of an inline pixel payload
//   - adjacency_analyze_file: Complement graph of an image file, optionally
//     cropped and scaled, with the mode taken from the image's bit depth
//
// Image Information:
//   - image_load: Dimensions, format, bit depth and analysis mode
//   - image_encode_pixels: Convert an image file into a pixel payload
//   - image_palette: Most frequent exact colors
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: {"code": "<ERROR_CODE>", "message": "..."} for structured errors
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    logger.Fatal(err)
//	}
package server
