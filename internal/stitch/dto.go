package stitch

// ListScreensResponse represents the body of the project screens listing
type ListScreensResponse struct {
	Screens       []Screen `json:"screens"`
	NextPageToken string   `json:"nextPageToken,omitempty"` // Not followed
}

// Screen represents a screen resource from the Stitch API
type Screen struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"` // Resource name: projects/{p}/screens/{s}
	Title      string   `json:"title,omitempty"`
	HTMLCode   *FileRef `json:"htmlCode,omitempty"`
	Screenshot *FileRef `json:"screenshot,omitempty"`
}

// FileRef represents a downloadable file attached to a screen
type FileRef struct {
	Name        string `json:"name,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}
