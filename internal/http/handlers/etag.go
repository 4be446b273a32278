package handlers

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// catalogETag is a weak validator for one view of the catalog: W/"<version>-<digest of view>".
func catalogETag(version uint64, view []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(view)
	return fmt.Sprintf(`W/"%d-%016x"`, version, h.Sum64())
}

// notModified sets the validator headers and reports whether the client's copy is still current.
func notModified(ctx *gin.Context, etag string) bool {
	ctx.Header("ETag", etag)
	ctx.Header("Cache-Control", "no-cache")

	if etagListed(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return true
	}
	return false
}

// respondCatalogJSON writes payload under a validator built from version and the encoded body.
// Use it for views whose content can change without a catalog version bump.
func respondCatalogJSON(ctx *gin.Context, version uint64, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		ctx.JSON(http.StatusOK, payload)
		return
	}

	if notModified(ctx, catalogETag(version, b)) {
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

// etagListed applies the weak comparison If-None-Match calls for.
func etagListed(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	want := opaqueTag(etag)
	for _, candidate := range strings.Split(header, ",") {
		if opaqueTag(candidate) == want {
			return true
		}
	}
	return false
}

func opaqueTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "W/")
}
