package server

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/colordetect/internal/detection"
	"github.com/ironsheep/colordetect/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_detect_colors").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Info("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_hsv":
		return s.handleImageSampleHSV(args)
	case "image_classify_hue":
		return s.handleImageClassifyHue(args)
	case "image_detect_colors":
		return s.handleImageDetectColors(args)
	default:
		return nil, errors.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating a missing object as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return errors.Wrap(err, "invalid arguments")
	}
	return nil
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleHSVArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// hsvSampleResult is a pixel sample plus the name its hue classifies as.
type hsvSampleResult struct {
	*imaging.HSVSample
	Name detection.ColorName `json:"name"`
}

func (s *Server) handleImageSampleHSV(args json.RawMessage) (interface{}, error) {
	var a imageSampleHSVArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	sample, err := imaging.SampleHSV(img, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return &hsvSampleResult{
		HSVSample: sample,
		Name:      detection.ClassifyHue(int(sample.HSV.H)),
	}, nil
}

type imageClassifyHueArgs struct {
	Hue *int `json:"hue"`
}

type classifyHueResult struct {
	Hue  int                 `json:"hue"`
	Name detection.ColorName `json:"name"`
}

func (s *Server) handleImageClassifyHue(args json.RawMessage) (interface{}, error) {
	var a imageClassifyHueArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Hue == nil {
		return nil, errors.New("hue is required")
	}
	if *a.Hue < 0 || *a.Hue > 179 {
		return nil, errors.Errorf("hue %d outside 0-179", *a.Hue)
	}
	return &classifyHueResult{Hue: *a.Hue, Name: detection.ClassifyHue(*a.Hue)}, nil
}

type imageDetectColorsArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageDetectColors(args json.RawMessage) (interface{}, error) {
	var a imageDetectColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	frame, err := s.cache.Frame(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(s.detector.Annotate(frame), a.Scale)
}
