package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/color-adjacency-mcp/internal/adjacency"
	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
	"github.com/ironsheep/color-adjacency-mcp/internal/imaging"
)

const (
	red   = "1.000000 0.000000 0.000000"
	green = "0.000000 1.000000 0.000000"
	blue  = "0.000000 0.000000 1.000000"
)

// stripeComplement is the complement graph of the stripe image: red and blue
// sit in separate windows, green touches both.
var stripeComplement = strings.Join([]string{
	blue + ": " + red,
	green + ": ",
	red + ": " + blue,
}, "\n")

// stripeRows is a 5x3 green image with a red pixel at (1,1) and a blue pixel
// at (3,1).
var stripeRows = [][]string{
	{green, green, green, green, green},
	{green, red, green, blue, green},
	{green, green, green, green, green},
}

func stripePayload() string {
	var parts []string
	for _, row := range stripeRows {
		parts = append(parts, row...)
	}
	return strings.Join(parts, " ")
}

// createStripeImageFile writes the stripe image as an 8-bit PNG.
func createStripeImageFile(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			img.Set(x, y, color.RGBA{0, 255, 0, 255})
		}
	}
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	img.Set(3, 1, color.RGBA{0, 0, 255, 255})

	path := filepath.Join(t.TempDir(), "stripe.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request through handleRequest.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unwraps the MCP text content into v.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %#v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

// errorCode extracts the structured error code from a failed tool call.
func errorCode(t *testing.T, resp *MCPResponse) string {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error.Code: got %d, want -32000", resp.Error.Code)
	}
	data, ok := resp.Error.Data.(map[string]string)
	if !ok {
		t.Fatalf("Error.Data: got %#v", resp.Error.Data)
	}
	return data["code"]
}

func TestHandleToolsCall_AdjacencyAnalyze(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "adjacency_analyze", map[string]interface{}{
		"payload": stripePayload(),
		"width":   5,
		"height":  3,
		"mode":    "8 bit",
	})

	var got AnalyzeResult
	decodeToolResult(t, resp, &got)

	if got.Result != stripeComplement {
		t.Errorf("Result:\ngot  %q\nwant %q", got.Result, stripeComplement)
	}
	if got.Mode != adjacency.Mode8Bit {
		t.Errorf("Mode: got %s", got.Mode)
	}
	if got.Stats.Windows != 3 || got.Stats.Colors != 3 {
		t.Errorf("Stats: got %+v", got.Stats)
	}
	if got.Adjacency != nil {
		t.Error("inline analysis should not include the adjacency graph")
	}
}

func TestHandleToolsCall_AdjacencyAnalyze_DefaultMode(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "adjacency_analyze", map[string]interface{}{
		"payload": stripePayload(),
		"width":   5,
		"height":  3,
	})

	var got AnalyzeResult
	decodeToolResult(t, resp, &got)
	if got.Mode != adjacency.DefaultMode {
		t.Errorf("Mode: got %s, want %s", got.Mode, adjacency.DefaultMode)
	}
}

func TestHandleToolsCall_AdjacencyAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		code apperrors.Code
	}{
		{
			"invalid mode",
			map[string]interface{}{"payload": stripePayload(), "width": 5, "height": 3, "mode": "64 bit"},
			apperrors.ErrCodeInvalidMode,
		},
		{
			"payload too short",
			map[string]interface{}{"payload": red + " " + red, "width": 5, "height": 3},
			apperrors.ErrCodeOutOfBounds,
		},
		{
			"dimensions overflow",
			map[string]interface{}{"payload": stripePayload(), "width": float64(1 << 32), "height": float64(1 << 32)},
			apperrors.ErrCodeOutOfBounds,
		},
		{
			"wrong argument type",
			map[string]interface{}{"payload": stripePayload(), "width": "five", "height": 3},
			apperrors.ErrCodeInvalidInput,
		},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "adjacency_analyze", tt.args)
			if code := errorCode(t, resp); code != string(tt.code) {
				t.Errorf("code: got %s, want %s", code, tt.code)
			}
		})
	}
}

func TestHandleToolsCall_AdjacencyAnalyze_SmallImage(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "adjacency_analyze", map[string]interface{}{
		"payload": red + " " + green,
		"width":   2,
		"height":  1,
	})

	var got AnalyzeResult
	decodeToolResult(t, resp, &got)
	if got.Result != "" {
		t.Errorf("Result: got %q, want empty", got.Result)
	}
}

func TestHandleToolsCall_AdjacencyAnalyzeFile(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	resp := callTool(t, s, "adjacency_analyze_file", map[string]interface{}{
		"path":              path,
		"include_adjacency": true,
	})

	var got AnalyzeResult
	decodeToolResult(t, resp, &got)

	if got.Width != 5 || got.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 5x3", got.Width, got.Height)
	}
	if got.Mode != adjacency.Mode8Bit {
		t.Errorf("Mode: got %s, want the detected 8 bit", got.Mode)
	}
	if got.Result != stripeComplement {
		t.Errorf("Result:\ngot  %q\nwant %q", got.Result, stripeComplement)
	}

	want := map[adjacency.Color][]string{
		blue:  {green},
		green: {blue, red},
		red:   {green},
	}
	if len(got.Adjacency) != len(want) {
		t.Fatalf("Adjacency: got %v", got.Adjacency)
	}
	for c, ns := range want {
		if strings.Join(got.Adjacency[c], ",") != strings.Join(ns, ",") {
			t.Errorf("Adjacency[%s]: got %v, want %v", c, got.Adjacency[c], ns)
		}
	}
}

func TestHandleToolsCall_AdjacencyAnalyzeFile_Region(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	// The left half keeps the red pixel and drops the blue one.
	resp := callTool(t, s, "adjacency_analyze_file", map[string]interface{}{
		"path":   path,
		"region": map[string]int{"x1": 0, "y1": 0, "x2": 3, "y2": 3},
		"mode":   "32",
	})

	var got AnalyzeResult
	decodeToolResult(t, resp, &got)

	if got.Width != 3 || got.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 3x3", got.Width, got.Height)
	}
	if got.Mode != adjacency.Mode32Bit {
		t.Errorf("Mode: got %s, want 32 bit", got.Mode)
	}
	if want := red + ": "; got.Result != want {
		t.Errorf("Result: got %q, want %q", got.Result, want)
	}
}

func TestHandleToolsCall_AdjacencyAnalyzeFile_Errors(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	tests := []struct {
		name string
		args map[string]interface{}
		code apperrors.Code
	}{
		{"missing file", map[string]interface{}{"path": filepath.Join(t.TempDir(), "nope.png")}, apperrors.ErrCodeFileNotFound},
		{"bad region name", map[string]interface{}{"path": path, "region_name": "middle"}, apperrors.ErrCodeInvalidRegion},
		{"region outside image", map[string]interface{}{"path": path, "region": map[string]int{"x1": 10, "y1": 10, "x2": 20, "y2": 20}}, apperrors.ErrCodeInvalidRegion},
		{"negative scale", map[string]interface{}{"path": path, "scale": -1.0}, apperrors.ErrCodeInvalidInput},
		{"bad mode", map[string]interface{}{"path": path, "mode": "7 bit"}, apperrors.ErrCodeInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "adjacency_analyze_file", tt.args)
			if code := errorCode(t, resp); code != string(tt.code) {
				t.Errorf("code: got %s, want %s", code, tt.code)
			}
		})
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	resp := callTool(t, s, "image_load", map[string]interface{}{"path": path})

	var info imaging.ImageInfo
	decodeToolResult(t, resp, &info)

	if info.Width != 5 || info.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 5x3", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.Mode != adjacency.Mode8Bit {
		t.Errorf("Mode: got %s, want 8 bit", info.Mode)
	}
	if info.InteriorWindows != 3 {
		t.Errorf("InteriorWindows: got %d, want 3", info.InteriorWindows)
	}
}

func TestHandleToolsCall_ImageEncodePixels(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	resp := callTool(t, s, "image_encode_pixels", map[string]interface{}{"path": path})

	var enc imaging.EncodeResult
	decodeToolResult(t, resp, &enc)

	if enc.Payload != stripePayload() {
		t.Errorf("Payload:\ngot  %q\nwant %q", enc.Payload, stripePayload())
	}
	if enc.Colors != 3 {
		t.Errorf("Colors: got %d, want 3", enc.Colors)
	}
}

func TestHandleToolsCall_ImageEncodePixels_NamedRegion(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	resp := callTool(t, s, "image_encode_pixels", map[string]interface{}{
		"path":        path,
		"region_name": "right-half",
		"scale":       2.0,
	})

	var enc imaging.EncodeResult
	decodeToolResult(t, resp, &enc)

	b := imaging.Region{}
	if r, err := imaging.NamedRegion(5, 3, "right-half"); err == nil {
		b = r
	}
	wantW, wantH := (b.X2-b.X1)*2, (b.Y2-b.Y1)*2
	if enc.Width != wantW || enc.Height != wantH {
		t.Errorf("dimensions: got %dx%d, want %dx%d", enc.Width, enc.Height, wantW, wantH)
	}
	if got := len(strings.Fields(enc.Payload)); got != wantW*wantH*3 {
		t.Errorf("payload tokens: got %d, want %d", got, wantW*wantH*3)
	}
}

func TestHandleToolsCall_ImagePalette(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	resp := callTool(t, s, "image_palette", map[string]interface{}{"path": path})

	var pal imaging.PaletteResult
	decodeToolResult(t, resp, &pal)

	if pal.Distinct != 3 || len(pal.Colors) != 3 {
		t.Fatalf("palette: got %+v", pal)
	}
	wantOrder := []adjacency.Color{green, blue, red}
	for i, c := range wantOrder {
		if pal.Colors[i].Color != c {
			t.Errorf("Colors[%d]: got %s, want %s", i, pal.Colors[i].Color, c)
		}
	}
	if pal.Colors[0].Count != 13 || pal.Colors[0].Hex != "#00ff00" {
		t.Errorf("green: got %+v", pal.Colors[0])
	}

	resp = callTool(t, s, "image_palette", map[string]interface{}{"path": path, "count": 1})
	decodeToolResult(t, resp, &pal)
	if pal.Distinct != 3 || len(pal.Colors) != 1 {
		t.Errorf("count 1: got %+v", pal)
	}
}

func TestHandleToolsCall_CacheReuse(t *testing.T) {
	s := newTestServer()
	path := createStripeImageFile(t)

	callTool(t, s, "image_load", map[string]interface{}{"path": path})
	callTool(t, s, "image_palette", map[string]interface{}{"path": path})
	if s.cache.Len() != 1 {
		t.Errorf("cache: got %d entries, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "image_ocr_full", map[string]interface{}{})
	if code := errorCode(t, resp); code != string(apperrors.ErrCodeInvalidInput) {
		t.Errorf("code: got %s, want INVALID_INPUT", code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`[1, 2]`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestToolErrorData_PlainError(t *testing.T) {
	if got := toolErrorData(os.ErrClosed); got != os.ErrClosed.Error() {
		t.Errorf("got %v, want the plain error string", got)
	}
}
