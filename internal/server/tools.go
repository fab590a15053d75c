package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProperties returns the schema properties shared by every tool that
// reads an image, merged with extra.
func imageProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file (cached across calls)",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Inline PNG, JPEG or GIF as base64 or a data URL, instead of path",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// profileProperties describes profile selection and overrides.
func profileProperties() map[string]interface{} {
	return map[string]interface{}{
		"profile": map[string]interface{}{
			"type":        "string",
			"description": "Detection profile: camera (live frames), photo (gallery photos), red. Default from SHAPE_MCP_PROFILE",
			"enum":        []string{"camera", "photo", "red"},
		},
		"min_area": map[string]interface{}{
			"type":        "number",
			"description": "Override the minimum contour area in square pixels",
		},
		"epsilon": map[string]interface{}{
			"type":        "number",
			"description": "Override the polygon approximation tolerance as a fraction of the perimeter (0-1)",
		},
	}
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
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageProperties(nil),
			},
		},

		{
			Name:        "image_evict",
			Description: "Drop an image from the path cache so the next call reads the file again, for example after it changed on disk. Without path the whole cache is cleared.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to evict, exactly as it was loaded. Omit to clear the cache",
					},
				},
			},
		},

		// Inspection
		{
			Name:        "image_sample_color",
			Description: "Get the color at one pixel (x, y) or several (points) as hex, RGB, HSL and HSV on the detection scale (H 0-180, S and V 0-255), plus the profiles whose ranges select it. Use this to find out why a shape was not detected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Several points to sample instead of x and y",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
				}),
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region (for example a detected shape's bounds) and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},

		// Shape Detection
		{
			Name:        "shapes_profiles",
			Description: "List the detection profiles with their HSV ranges and thresholds, the default profile and the contour backend in use.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "shapes_detect",
			Description: "Detect pink-to-red triangles, rectangles and circles. Returns each shape's kind, bounds, center, polygon and features (area, circularity, vertex count), sorted by area, plus per-kind counts and the overlay command.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(merge(profileProperties(), map[string]interface{}{
					"include_contours": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the traced contour points of each shape. Default false",
						"default":     false,
					},
				})),
			},
		},
		{
			Name:        "shapes_mask",
			Description: "Return the binary color mask a profile produces (after rescaling and opening) as base64-encoded PNG, with the fraction of selected pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"profile": profileProperties()["profile"],
				}),
			},
		},
		{
			Name:        "shapes_annotate",
			Description: "Detect shapes and return the image with them marked as base64-encoded PNG. boxes draws red bounding boxes with centered labels; outlines traces each contour in green (triangle), red (rectangle) or blue (circle).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(merge(profileProperties(), map[string]interface{}{
					"style": map[string]interface{}{
						"type":        "string",
						"description": "Annotation style. Default outlines for the photo profile, boxes otherwise",
						"enum":        []string{"boxes", "outlines"},
					},
				})),
			},
		},
		{
			Name:        "shapes_command",
			Description: "Detect shapes in a frame and reduce them to the overlay command (kind of the largest shape). The command is fed to the overlay of the named stream, which reports the image and sound to show and whether they changed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(merge(profileProperties(), map[string]interface{}{
					"stream": map[string]interface{}{
						"type":        "string",
						"description": "Overlay stream name; each stream remembers its own current command. Default \"default\"",
					},
				})),
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
