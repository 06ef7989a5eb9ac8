package employee

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	web "staffhub.io/staffhub/web/common"
)

const maxUploadSize = 10 << 20

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var errImageType = errors.New("Face image must be a jpg, png or webp file")

// UploadFace registers a face from a multipart form: the photo in "image",
// the descriptor as a JSON array in "descriptor" and an optional "score".
func (ep *Endpoint) UploadFace(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	var dto FaceDTO
	if err := json.Unmarshal([]byte(c.Request.FormValue("descriptor")), &dto.Descriptor); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("descriptor must be a JSON array of numbers"))
		return
	}
	if score := c.Request.FormValue("score"); score != "" {
		v, err := strconv.ParseFloat(score, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("score must be a number"))
			return
		}
		dto.Score = v
	}

	file, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}
	if file != nil {
		contentType, ok := imageTypes[strings.ToLower(filepath.Ext(file.Filename))]
		if !ok {
			web.Fail(c, http.StatusBadRequest, errImageType)
			return
		}
		f, err := file.Open()
		if err != nil {
			web.Fail(c, http.StatusInternalServerError, err)
			return
		}
		defer f.Close()
		body, err := io.ReadAll(f)
		if err != nil {
			web.Fail(c, http.StatusInternalServerError, err)
			return
		}
		dto.Image = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
	}

	ep.registerFace(c, dto)
}
