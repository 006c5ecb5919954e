package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/color-adjacency-mcp/internal/adjacency"
	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
	"github.com/ironsheep/color-adjacency-mcp/internal/imaging"
)

// defaultPaletteCount is the number of colors image_palette returns when the
// caller does not ask for a specific count.
const defaultPaletteCount = 10

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "adjacency_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data carries the error code and message.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", toolErrorData(err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Adjacency Analysis
	case "adjacency_analyze":
		return s.handleAdjacencyAnalyze(args)
	case "adjacency_analyze_file":
		return s.handleAdjacencyAnalyzeFile(args)

	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_encode_pixels":
		return s.handleImageEncodePixels(args)
	case "image_palette":
		return s.handleImagePalette(args)

	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// toolErrorData exposes the machine-readable code of structured errors.
func toolErrorData(err error) interface{} {
	code := apperrors.GetCode(err)
	if code == "" {
		return err.Error()
	}
	return map[string]string{
		"code":    string(code),
		"message": apperrors.UserMessage(err),
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid arguments")
	}
	return nil
}

// === Adjacency Analysis Handlers ===

type adjacencyAnalyzeArgs struct {
	Payload      string `json:"payload"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Mode         string `json:"mode"`
	MaxNumColors int    `json:"max_num_colors"`
}

// AnalyzeResult is returned by the adjacency tools.
type AnalyzeResult struct {
	Width     int                          `json:"width"`
	Height    int                          `json:"height"`
	Mode      adjacency.Mode               `json:"mode"`
	Result    string                       `json:"result"`
	Adjacency map[adjacency.Color][]string `json:"adjacency,omitempty"`
	Stats     adjacency.Stats              `json:"stats"`
}

func (s *Server) handleAdjacencyAnalyze(args json.RawMessage) (interface{}, error) {
	var a adjacencyAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	mode, err := s.resolveMode(a.Mode, s.cfg.DefaultMode())
	if err != nil {
		return nil, err
	}
	if a.MaxNumColors <= 0 {
		a.MaxNumColors = imaging.CountColors(a.Payload)
	}

	res, err := s.analyzer.Run(adjacency.Request{
		Payload:      a.Payload,
		Width:        a.Width,
		Height:       a.Height,
		Mode:         mode,
		MaxNumColors: a.MaxNumColors,
	})
	if err != nil {
		return nil, err
	}
	return &AnalyzeResult{
		Width:  a.Width,
		Height: a.Height,
		Mode:   mode,
		Result: res.Text(),
		Stats:  res.Stats,
	}, nil
}

type regionArgs struct {
	Region     *imaging.Region `json:"region"`
	RegionName string          `json:"region_name"`
	Scale      float64         `json:"scale"`
}

// encodeOptions resolves the cropping arguments against img.
func (r regionArgs) encodeOptions(img image.Image) (imaging.EncodeOptions, error) {
	opts := imaging.EncodeOptions{Region: r.Region, Scale: r.Scale}
	if opts.Region == nil && r.RegionName != "" {
		b := img.Bounds()
		region, err := imaging.NamedRegion(b.Dx(), b.Dy(), r.RegionName)
		if err != nil {
			return opts, err
		}
		region.X1 += b.Min.X
		region.X2 += b.Min.X
		region.Y1 += b.Min.Y
		region.Y2 += b.Min.Y
		opts.Region = &region
	}
	return opts, nil
}

type adjacencyAnalyzeFileArgs struct {
	Path string `json:"path"`
	regionArgs
	Mode             string `json:"mode"`
	IncludeAdjacency bool   `json:"include_adjacency"`
}

func (s *Server) handleAdjacencyAnalyzeFile(args json.RawMessage) (interface{}, error) {
	var a adjacencyAnalyzeFileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	enc, err := s.encodeFile(a.Path, a.regionArgs)
	if err != nil {
		return nil, err
	}
	mode, err := s.resolveMode(a.Mode, enc.Mode)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.Run(adjacency.Request{
		Payload:      enc.Payload,
		Width:        enc.Width,
		Height:       enc.Height,
		Mode:         mode,
		MaxNumColors: enc.Colors,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", a.Path, err)
	}

	out := &AnalyzeResult{
		Width:  enc.Width,
		Height: enc.Height,
		Mode:   mode,
		Result: res.Text(),
		Stats:  res.Stats,
	}
	if a.IncludeAdjacency {
		out.Adjacency = make(map[adjacency.Color][]string, len(res.Adjacency))
		for _, e := range res.Adjacency {
			colors := make([]string, 0, e.Set.Len())
			for _, c := range e.Set.Sorted() {
				colors = append(colors, string(c))
			}
			out.Adjacency[e.Color] = colors
		}
	}
	return out, nil
}

// resolveMode parses an explicit mode or falls back to def.
func (s *Server) resolveMode(mode string, def adjacency.Mode) (adjacency.Mode, error) {
	if mode == "" {
		return def, nil
	}
	return adjacency.ParseMode(mode)
}

func (s *Server) encodeFile(path string, r regionArgs) (*imaging.EncodeResult, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	opts, err := r.encodeOptions(img)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePixels(img, opts)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageEncodeArgs struct {
	Path string `json:"path"`
	regionArgs
}

func (s *Server) handleImageEncodePixels(args json.RawMessage) (interface{}, error) {
	var a imageEncodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.encodeFile(a.Path, a.regionArgs)
}

type imagePaletteArgs struct {
	Path string `json:"path"`
	regionArgs
	Count *int `json:"count"`
}

func (s *Server) handleImagePalette(args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	count := defaultPaletteCount
	if a.Count != nil {
		count = *a.Count
	}
	enc, err := s.encodeFile(a.Path, a.regionArgs)
	if err != nil {
		return nil, err
	}
	return imaging.Palette(adjacency.DecodePixels(enc.Payload), count), nil
}
