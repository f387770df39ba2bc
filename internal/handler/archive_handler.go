package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/warmly/bot/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const archivePageShell = `<!DOCTYPE html>
<html lang="ru">
<head><meta charset="utf-8"><title>Архив</title></head>
<body>%s</body>
</html>`

// UserArchive 把某用户的收藏渲染为只读 HTML 页面。
// 短语文本按 Markdown 渲染后再消毒。
func (a *API) UserArchive(c *gin.Context) {
	telegramID, err := parseInt64Param(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	favorites, err := a.favorites.List(telegramID, 50)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to load archive")
		}
		return
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "# Архив пользователя %d\n\n", telegramID)
	if len(favorites) == 0 {
		doc.WriteString("Архив пуст.\n")
	}
	for _, favorite := range favorites {
		fmt.Fprintf(&doc, "- %s — *%s*\n", favorite.Phrase, favorite.CreatedAt.Format("2006-01-02 15:04"))
	}

	var rendered bytes.Buffer
	if err := markdownEngine.Convert([]byte(doc.String()), &rendered); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render archive")
		return
	}

	safe := sanitizer.SanitizeBytes(rendered.Bytes())
	page := fmt.Sprintf(archivePageShell, safe)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
