package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The decoded image is cached for later calls on the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_hsv",
			Description: "Get the colour at a pixel in RGB and in 8-bit HSV (hue 0-179, saturation and value 0-255), with the colour name its hue classifies as.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_classify_hue",
			Description: "Name a hue value: Red, Yellow, Green, Blue, Purple or Unknown. Hue is in half-degrees (0-179).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hue": map[string]interface{}{
						"type":        "integer",
						"description": "Hue in half-degrees",
						"minimum":     0,
						"maximum":     179,
					},
				},
				"required": []string{"hue"},
			},
		},
		{
			Name:        "image_detect_colors",
			Description: "Find red, green and blue regions larger than 500 square pixels and return the image with each region boxed and labelled, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor applied to the annotated image. Default 1.0",
						"default":     1.0,
					},
				},
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
