package drive

// fileListResponse is one page of a files.list call.
type fileListResponse struct {
	Files         []fileResource `json:"files"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// fileResource is the raw provider shape of a file node. Size arrives as a
// decimal string and may be absent entirely; both cases map to the unknown
// sentinel at the boundary.
type fileResource struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	Size         string   `json:"size,omitempty"`
	ModifiedTime string   `json:"modifiedTime,omitempty"`
	Parents      []string `json:"parents,omitempty"`
	WebViewLink  string   `json:"webViewLink,omitempty"`
}

// errorResponse is the provider's error envelope.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
