package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"adjacency_analyze",
		"adjacency_analyze_file",
		"image_load",
		"image_encode_pixels",
		"image_palette",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("InputSchema required should be a []string")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required property %s is not declared", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredParams(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"adjacency_analyze", []string{"payload", "width", "height"}},
		{"adjacency_analyze_file", []string{"path"}},
		{"image_load", []string{"path"}},
		{"image_encode_pixels", []string{"path"}},
		{"image_palette", []string{"path"}},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tool, ok := toolMap[tt.tool]
			if !ok {
				t.Fatalf("tool %s not found", tt.tool)
			}
			got := tool.InputSchema["required"].([]string)
			if len(got) != len(tt.required) {
				t.Fatalf("required: got %v, want %v", got, tt.required)
			}
			for i := range got {
				if got[i] != tt.required[i] {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], tt.required[i])
				}
			}
		})
	}
}

func TestToolDefinitions_ModeEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		mode, ok := props["mode"].(map[string]interface{})
		if !ok {
			continue
		}
		enum := mode["enum"].([]string)
		if len(enum) != 3 || enum[0] != "8 bit" || enum[1] != "16 bit" || enum[2] != "32 bit" {
			t.Errorf("%s: mode enum got %v", tool.Name, enum)
		}
	}
}

func TestWithPath_DoesNotShareMaps(t *testing.T) {
	a := withPath(regionProperties)
	a["extra"] = true
	if _, ok := regionProperties["extra"]; ok {
		t.Error("withPath must not modify its argument")
	}
	if _, ok := a["path"]; !ok {
		t.Error("withPath should add the path property")
	}
}
