package handler

import (
	"bufio"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
)

// openUpload opens the multipart file in field. The content type is sniffed
// from the first bytes when the client did not declare a concrete one. The
// returned close func must be called once the body has been consumed.
func openUpload(c *gin.Context, field string) (leasingapp.UploadImage, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return leasingapp.UploadImage{}, func() {}, err
	}
	f, err := fh.Open()
	if err != nil {
		return leasingapp.UploadImage{}, func() {}, err
	}

	body := bufio.NewReaderSize(f, 512)
	contentType, _, _ := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		head, _ := body.Peek(512)
		contentType, _, _ = mime.ParseMediaType(http.DetectContentType(head))
	}

	return leasingapp.UploadImage{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        body,
	}, func() { _ = f.Close() }, nil
}
