package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/lordeck/internal/cards"
	"github.com/youruser/lordeck/internal/deck"
	"github.com/youruser/lordeck/internal/deckerr"
	imagepkg "github.com/youruser/lordeck/internal/image"
	"github.com/youruser/lordeck/internal/metadata"
	"github.com/youruser/lordeck/internal/render"
)

// writeError maps codec errors to 400 with their kind and anything else to
// status.
func writeError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	if kind := deckerr.KindOf(err); kind != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": kind})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type deckResponse struct {
	Code    string               `json:"code"`
	Version int                  `json:"version"`
	Size    int                  `json:"size"`
	Cards   []cards.CodeAndCount `json:"cards"`
	List    []string             `json:"list"`
	Page    *render.Page         `json:"page,omitempty"`
}

func newDeckResponse(d *deck.Deck) (deckResponse, error) {
	code, err := d.Code()
	if err != nil {
		return deckResponse{}, err
	}
	return deckResponse{
		Code:    code,
		Version: d.Version(),
		Size:    d.Size(),
		Cards:   d.AllCodeAndCount(),
		List:    d.List(),
	}, nil
}

// enrich returns metadata for d, or nil when no provider is configured or
// the lookup fails. Codec results never depend on it.
func (s *Server) enrich(c *gin.Context, d *deck.Deck) *metadata.Metadata {
	if s.provider == nil {
		return nil
	}
	lang := c.DefaultQuery("language", s.language)
	md, err := metadata.Enrich(c.Request.Context(), s.provider, d, lang)
	if err != nil {
		s.logger.Warn("metadata lookup failed", "error", err,
			"request_id", RequestIDFromContext(c.Request.Context()))
		return nil
	}
	return md
}

// decodeHandler decodes the code in the path. ?metadata=true adds the
// rendered page data.
func (s *Server) decodeHandler(c *gin.Context) {
	d, err := deck.FromCode(c.Param("code"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	resp, err := newDeckResponse(d)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if want, _ := strconv.ParseBool(c.Query("metadata")); want {
		page, err := render.Build(d, s.enrich(c, d))
		if err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		resp.Page = page
	}
	c.JSON(http.StatusOK, resp)
}

type encodeRequest struct {
	Cards   []cards.CodeAndCount `json:"cards"`
	Version int                  `json:"version"` // 0 picks the lowest version that fits
}

func encodeHandler(c *gin.Context) {
	var req encodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	d, err := deck.FromCardCodesAndCounts(req.Cards)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	version := max(req.Version, d.Version())
	if version > cards.MaxVersion() {
		writeError(c, http.StatusBadRequest, deckerr.WithMetadata(deckerr.KindVersion, "unsupported deck version",
			map[string]string{"version": strconv.Itoa(version), "max": strconv.Itoa(cards.MaxVersion())}))
		return
	}
	code, err := deck.Encode(d.Cards(), version)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "version": version, "size": d.Size()})
}

type filterRequest struct {
	Code   string              `json:"code" binding:"required"`
	Filter cards.FilterOptions `json:"filter"`
}

func filterHandler(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	d, err := deck.FromCode(req.Code)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	out := cards.Filter(d.Cards(), req.Filter)
	list := make([]cards.CodeAndCount, 0, len(out))
	for _, card := range out {
		list = append(list, card.CodeAndCount())
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "cards": list})
}

func (s *Server) pageHandler(c *gin.Context) {
	d, err := deck.FromCode(c.Param("code"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	page, err := render.Build(d, s.enrich(c, d))
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	body, err := render.HTML(page)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func qrSize(c *gin.Context) (int, error) {
	sizeStr := c.Query("size")
	if sizeStr == "" {
		return imagepkg.DefaultQRSize, nil
	}
	return strconv.Atoi(sizeStr)
}

// qrHandler returns a PNG QR code of the canonical form of ?code.
func qrHandler(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		writeError(c, http.StatusBadRequest, errors.New("missing code parameter"))
		return
	}
	d, err := deck.FromCode(code)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	canonical, err := d.Code()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	size, err := qrSize(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	b, err := imagepkg.GenerateQRPNG(canonical, size)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

type deckImageRequest struct {
	Code   string `json:"code" binding:"required"`
	NoQR   bool   `json:"no_qr"`
	QRSize int    `json:"qr_size"`
}

// maxImageCards bounds the tiles downloaded and drawn for one deck image.
const maxImageCards = 100

// deckImageHandler composes a PNG overview of the deck: card art from the
// metadata provider, count pips and a QR code of the canonical code.
func (s *Server) deckImageHandler(c *gin.Context) {
	var req deckImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	d, err := deck.FromCode(req.Code)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if d.Len() > maxImageCards {
		writeError(c, http.StatusBadRequest, fmt.Errorf("deck has %d distinct cards, images support at most %d", d.Len(), maxImageCards))
		return
	}
	page, err := render.Build(d, s.enrich(c, d))
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	urls := make([]string, len(page.Cards))
	for i, cc := range page.Cards {
		urls[i] = page.MatchedCards[cc.Code].ImageURL()
	}
	arts := imagepkg.DownloadAll(c.Request.Context(), s.client, s.logger, urls)
	tiles := make([]imagepkg.Tile, len(page.Cards))
	for i, cc := range page.Cards {
		tiles[i] = imagepkg.Tile{Art: arts[i], Count: cc.Count}
	}

	var qr image.Image
	if !req.NoQR {
		size := req.QRSize
		if size == 0 {
			size = imagepkg.DefaultQRSize
		}
		qr, err = imagepkg.GenerateQRImage(page.Code, size)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
	}

	out := imagepkg.ComposeDeckImage(tiles, qr)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, out, imaging.PNG); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
