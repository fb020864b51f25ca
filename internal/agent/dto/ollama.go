package dto

// OllamaGenerateOptions carries the sampling parameters of a generate call.
type OllamaGenerateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
}

// OllamaGenerateRequest is the payload of POST /api/generate.
type OllamaGenerateRequest struct {
	Model   string                `json:"model"`
	Prompt  string                `json:"prompt"`
	Stream  bool                  `json:"stream"`
	Options OllamaGenerateOptions `json:"options"`
}

// OllamaGenerateResponse is the non-streaming generate response.
type OllamaGenerateResponse struct {
	Response string `json:"response"`
}

// OllamaModel is one entry of the advertised model list.
type OllamaModel struct {
	Name string `json:"name"`
}

// OllamaTagsResponse is the payload of GET /api/tags.
type OllamaTagsResponse struct {
	Models []OllamaModel `json:"models"`
}
