package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// modeProperty is the schema shared by every tool that accepts a mode.
var modeProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"8 bit", "16 bit", "32 bit"},
	"description": "Render precision. 8 bit and 16 bit treat both black and white as background; 32 bit treats only black as background.",
}

// regionProperties are the optional cropping arguments of the file tools.
var regionProperties = map[string]interface{}{
	"region": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"description": "Optional rectangle to restrict the analysis to (x2, y2 exclusive).",
	},
	"region_name": map[string]interface{}{
		"type":        "string",
		"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
		"description": "Optional named part of the image. Ignored when region is given.",
	},
	"scale": map[string]interface{}{
		"type":        "number",
		"description": "Optional nearest-neighbour scale factor applied after cropping. Default 1.0",
		"default":     1.0,
	},
}

func withPath(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the rendered image file",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Adjacency Analysis
		{
			Name:        "adjacency_analyze",
			Description: "Compute, for every color of a rendered image payload, the colors it never touches in any 3x3 window. Returns one '<color>: <non-neighbour colors>' line per color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"payload": map[string]interface{}{
						"type":        "string",
						"description": "Whitespace-separated color components, three per pixel, row-major (e.g. '0.123456 0.456789 0.891011 ...')",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Image height in pixels",
					},
					"mode": modeProperty,
					"max_num_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Optional capacity hint (expected distinct colors). Derived from the payload when omitted.",
					},
				},
				"required": []string{"payload", "width", "height"},
			},
		},
		{
			Name:        "adjacency_analyze_file",
			Description: "Load a rendered image file and compute the color non-adjacency graph. The mode defaults to the image's bit depth.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPath(merge(regionProperties, map[string]interface{}{
					"mode": modeProperty,
					"include_adjacency": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the adjacency (touching colors) graph",
						"default":     false,
					},
				})),
				"required": []string{"path"},
			},
		},

		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, bit depth and the analysis mode it maps to.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withPath(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_encode_pixels",
			Description: "Convert an image file into the whitespace-separated color payload accepted by adjacency_analyze.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withPath(regionProperties),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_palette",
			Description: "List the most frequent exact colors of an image file as the analyzer sees them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPath(merge(regionProperties, map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return (default 10, 0 for all)",
						"default":     10,
					},
				})),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
