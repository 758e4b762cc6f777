package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oremus-labs/token-relay/internal/openapi"
)

const docsPage = `<!DOCTYPE html>
<html>
<head>
  <title>Token Relay API</title>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
  <redoc spec-url="/openapi"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`

// OpenAPISpec serves the API document, as YAML when the client asks for it.
func (h *Handler) OpenAPISpec(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "yaml") {
		c.Data(http.StatusOK, "application/yaml", openapi.YAML())
		return
	}
	doc, err := openapi.JSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render api document"})
		return
	}
	c.Data(http.StatusOK, "application/json", doc)
}

// APIDocs serves the interactive documentation page.
func (h *Handler) APIDocs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}
