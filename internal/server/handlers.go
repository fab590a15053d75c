package server

import (
	"encoding/json"
	"image"
	"time"

	"github.com/pkg/errors"

	"github.com/ironsheep/shape-detect-mcp/internal/detection"
	"github.com/ironsheep/shape-detect-mcp/internal/imaging"
	"github.com/ironsheep/shape-detect-mcp/internal/overlay"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "shapes_detect", "image_crop").
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
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Dur("elapsed", elapsed).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Info().Str("tool", params.Name).Dur("elapsed", elapsed).Msg("tool completed")

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the image from the cache or decodes it inline
//  4. Calls the appropriate imaging/detection/overlay function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Inspection
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_evict":
		return s.handleImageEvict(args)

	// Shape Detection
	case "shapes_profiles":
		return s.handleShapesProfiles(args)
	case "shapes_detect":
		return s.handleShapesDetect(args)
	case "shapes_mask":
		return s.handleShapesMask(args)
	case "shapes_annotate":
		return s.handleShapesAnnotate(args)
	case "shapes_command":
		return s.handleShapesCommand(args)

	default:
		return nil, errors.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageSource names the image a tool works on: a file path (cached) or an
// inline base64 image. Exactly one must be set.
type imageSource struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) loadImage(src imageSource) (image.Image, error) {
	switch {
	case src.Path != "" && src.ImageBase64 != "":
		return nil, errors.New("give either path or image_base64, not both")
	case src.Path != "":
		return s.cache.Load(src.Path)
	case src.ImageBase64 != "":
		return imaging.DecodeBase64(src.ImageBase64)
	}
	return nil, errors.New("path or image_base64 is required")
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageSource
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path != "" && a.ImageBase64 == "" {
		return imaging.GetDimensions(s.cache, a.Path)
	}
	img, err := s.loadImage(a)
	if err != nil {
		return nil, err
	}
	return &imaging.DimensionsResult{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}

type imageEvictArgs struct {
	Path string `json:"path"`
}

type evictResult struct {
	Evicted int `json:"evicted"`
	Cached  int `json:"cached"`
}

// handleImageEvict drops one path from the image cache, or every entry when
// no path is given.
func (s *Server) handleImageEvict(args json.RawMessage) (interface{}, error) {
	var a imageEvictArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var evicted int
	if a.Path == "" {
		evicted = s.cache.Clear()
	} else if s.cache.Evict(a.Path) {
		evicted = 1
	}
	s.log.Debug().Str("path", a.Path).Int("evicted", evicted).Msg("image cache eviction")
	return &evictResult{Evicted: evicted, Cached: s.cache.Len()}, nil
}

// === Inspection Handlers ===

type imageSampleColorArgs struct {
	imageSource
	X      int `json:"x"`
	Y      int `json:"y"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}

	if len(a.Points) == 0 {
		return imaging.SampleColor(img, a.X, a.Y)
	}
	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, points)
}

type imageCropArgs struct {
	imageSource
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Shape Detection Handlers ===

// profileArgs selects a profile and optionally overrides its thresholds.
type profileArgs struct {
	Profile string   `json:"profile"`
	MinArea *float64 `json:"min_area"`
	Epsilon *float64 `json:"epsilon"`
}

func (s *Server) resolveProfile(a profileArgs) (detection.Profile, error) {
	name := a.Profile
	if name == "" {
		name = s.profile
	}
	p, err := detection.LookupProfile(name)
	if err != nil {
		return detection.Profile{}, err
	}
	if a.MinArea != nil {
		p.MinArea = *a.MinArea
	}
	if a.Epsilon != nil {
		p.Epsilon = *a.Epsilon
	}
	return p, p.Validate()
}

type profilesResult struct {
	Default  string              `json:"default"`
	Backend  string              `json:"backend"`
	Profiles []detection.Profile `json:"profiles"`
}

func (s *Server) handleShapesProfiles(json.RawMessage) (interface{}, error) {
	names := detection.ProfileNames()
	result := &profilesResult{
		Default:  s.profile,
		Backend:  s.extractor.Name(),
		Profiles: make([]detection.Profile, 0, len(names)),
	}
	for _, name := range names {
		p, err := detection.LookupProfile(name)
		if err != nil {
			return nil, err
		}
		result.Profiles = append(result.Profiles, p)
	}
	return result, nil
}

type shapesDetectArgs struct {
	imageSource
	profileArgs
	IncludeContours bool `json:"include_contours"`
}

// detect loads the image, resolves the profile and runs detection.
func (s *Server) detect(src imageSource, pa profileArgs) (image.Image, detection.Profile, *detection.ShapesResult, error) {
	img, err := s.loadImage(src)
	if err != nil {
		return nil, detection.Profile{}, nil, err
	}
	p, err := s.resolveProfile(pa)
	if err != nil {
		return nil, detection.Profile{}, nil, err
	}
	result, err := detection.DetectShapesWith(img, p, s.extractor)
	if err != nil {
		return nil, detection.Profile{}, nil, err
	}
	s.log.Debug().
		Str("profile", p.Name).
		Int("count", result.Count).
		Int("discarded", result.Discarded).
		Str("command", result.Command).
		Msg("detection finished")
	return img, p, result, nil
}

func (s *Server) handleShapesDetect(args json.RawMessage) (interface{}, error) {
	var a shapesDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, _, result, err := s.detect(a.imageSource, a.profileArgs)
	if err != nil {
		return nil, err
	}
	if !a.IncludeContours {
		for i := range result.Shapes {
			result.Shapes[i].Contour = nil
		}
	}
	return result, nil
}

type shapesMaskArgs struct {
	imageSource
	Profile string `json:"profile"`
}

type maskResult struct {
	Profile  string  `json:"profile"`
	Coverage float64 `json:"coverage"`
	imaging.EncodedImage
}

func (s *Server) handleShapesMask(args json.RawMessage) (interface{}, error) {
	var a shapesMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}
	p, err := s.resolveProfile(profileArgs{Profile: a.Profile})
	if err != nil {
		return nil, err
	}
	mask, err := detection.Mask(img, p)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(mask)
	if err != nil {
		return nil, err
	}
	return &maskResult{
		Profile:      p.Name,
		Coverage:     detection.Coverage(mask),
		EncodedImage: *encoded,
	}, nil
}

type shapesAnnotateArgs struct {
	imageSource
	profileArgs
	Style string `json:"style"`
}

type annotateResult struct {
	Count      int    `json:"count"`
	Triangles  int    `json:"triangles"`
	Rectangles int    `json:"rectangles"`
	Circles    int    `json:"circles"`
	Command    string `json:"command"`
	Style      string `json:"style"`
	imaging.EncodedImage
}

func (s *Server) handleShapesAnnotate(args json.RawMessage) (interface{}, error) {
	var a shapesAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, p, result, err := s.detect(a.imageSource, a.profileArgs)
	if err != nil {
		return nil, err
	}

	style, err := detection.ParseStyle(a.Style, p)
	if err != nil {
		return nil, err
	}

	work, _ := detection.Rescale(img, p)
	encoded, err := imaging.EncodePNGBase64(detection.Annotate(work, result.Shapes, style))
	if err != nil {
		return nil, err
	}
	return &annotateResult{
		Count:        result.Count,
		Triangles:    result.Triangles,
		Rectangles:   result.Rectangles,
		Circles:      result.Circles,
		Command:      result.Command,
		Style:        string(style),
		EncodedImage: *encoded,
	}, nil
}

type shapesCommandArgs struct {
	imageSource
	profileArgs
	Stream string `json:"stream"`
}

type commandResult struct {
	Stream  string       `json:"stream"`
	Command string       `json:"command"`
	Changed bool         `json:"changed"`
	Cue     *overlay.Cue `json:"cue,omitempty"`
	Count   int          `json:"count"`
}

func (s *Server) handleShapesCommand(args json.RawMessage) (interface{}, error) {
	var a shapesCommandArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Stream == "" {
		a.Stream = "default"
	}
	_, _, result, err := s.detect(a.imageSource, a.profileArgs)
	if err != nil {
		return nil, err
	}

	cue, changed := s.overlays.Tracker(a.Stream).Change(result.Command)
	out := &commandResult{
		Stream:  a.Stream,
		Command: result.Command,
		Changed: changed,
		Count:   result.Count,
	}
	if cue.Command != "" {
		out.Cue = &cue
	}
	if changed {
		s.log.Info().Str("stream", a.Stream).Str("command", cue.Command).Str("sound", cue.Sound).Msg("overlay changed")
	}
	return out, nil
}
