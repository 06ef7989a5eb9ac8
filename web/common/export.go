package common

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/export"
)

// WriteTable serves table as an attachment in the format named by ?format=.
func WriteTable(c *gin.Context, table *export.Table, day time.Time) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		Fail(c, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := table.Write(&buf, format); err != nil {
		Fail(c, http.StatusInternalServerError, err)
		return
	}

	filename := format.Filename(table.Name, day)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
