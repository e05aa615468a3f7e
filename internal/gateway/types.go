package gateway

// Schema is the JSON-schema subset accepted by the provider for structured
// generation. Types use the provider's uppercase convention.
type Schema struct {
	Type       string             `json:"type"`
	Items      *Schema            `json:"items,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// GenerateConfig constrains a text generation call.
type GenerateConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

// ContentPayload is the request body for generateContent and its streaming
// variant. Contents is either a prompt string or a transcript slice.
type ContentPayload struct {
	Contents any             `json:"contents"`
	Config   *GenerateConfig `json:"config,omitempty"`
}

// TranscriptMessage mirrors one chat message in provider shape.
type TranscriptMessage struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is one piece of message content.
type Part struct {
	Text string `json:"text"`
}

// ContentResult is the provider's unary text response.
type ContentResult struct {
	Text string `json:"text"`
}

// ImageConfig constrains an image generation call.
type ImageConfig struct {
	NumberOfImages int    `json:"numberOfImages,omitempty"`
	OutputMIMEType string `json:"outputMimeType,omitempty"`
}

// ImagePayload is the request body for generateImages.
type ImagePayload struct {
	Prompt string       `json:"prompt"`
	Config *ImageConfig `json:"config,omitempty"`
}

// GeneratedImage is one produced image; ImageBytes arrives base64-encoded and
// decodes transparently.
type GeneratedImage struct {
	Image struct {
		ImageBytes []byte `json:"imageBytes"`
	} `json:"image"`
}

// ImagesResult is the provider's image generation response.
type ImagesResult struct {
	GeneratedImages []GeneratedImage `json:"generatedImages"`
}

// VideoConfig constrains a video generation call.
type VideoConfig struct {
	NumberOfVideos int `json:"numberOfVideos,omitempty"`
}

// VideoPayload is the request body for generateVideos.
type VideoPayload struct {
	Prompt string       `json:"prompt"`
	Config *VideoConfig `json:"config,omitempty"`
}

// GeneratedVideo is one produced video reference.
type GeneratedVideo struct {
	Video struct {
		URI string `json:"uri"`
	} `json:"video"`
}

// Operation is the opaque long-running-operation handle for video jobs.
// Callers poll until Done and then read the download URI off Response.
type Operation struct {
	Name     string `json:"name,omitempty"`
	Done     bool   `json:"done"`
	Response *struct {
		GeneratedVideos []GeneratedVideo `json:"generatedVideos"`
	} `json:"response,omitempty"`
	Error *struct {
		Message string `json:"message,omitempty"`
	} `json:"error,omitempty"`
}

// DownloadURI extracts the first generated video's locator, empty when the
// operation carries none.
func (op Operation) DownloadURI() string {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return ""
	}
	return op.Response.GeneratedVideos[0].Video.URI
}
