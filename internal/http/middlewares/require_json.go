package middlewares

import (
	"mime"
	"net/http"
	"strings"

	"github.com/geocoder89/eventsapi/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// JSONMediaTypes are the request body types the API decodes. Any other
// structured "+json" type is accepted as well.
var JSONMediaTypes = []string{handlers.MediaTypeJSON, handlers.MediaTypeHAL}

func RequireJSON() gin.HandlerFunc {
	message := "Content-Type must be one of: " + strings.Join(JSONMediaTypes, ", ")

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if !isJSONMediaType(c.GetHeader("Content-Type")) {
				handlers.AbortWithError(c, http.StatusUnsupportedMediaType, "unsupported_media_type", message)
				return
			}
		}
		c.Next()
	}
}

// isJSONMediaType ignores parameters such as charset.
func isJSONMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, accepted := range JSONMediaTypes {
		if mediaType == accepted {
			return true
		}
	}

	return strings.HasSuffix(mediaType, "+json")
}
