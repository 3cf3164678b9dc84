// README: Presigned upload request/response shapes.
package upload

type Request struct {
	FileType       string `json:"fileType"`
	FileName       string `json:"fileName"`
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	FileIdentifier string `json:"fileIdentifier"`
}

type Response struct {
	UploadURL string `json:"uploadURL"`
	FileURL   string `json:"fileURL"`
}

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}
