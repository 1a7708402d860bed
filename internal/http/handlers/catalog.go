package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogrepo "github.com/soniq-music/soniq-webapp-backend/internal/data/repos/catalog"
	"github.com/soniq-music/soniq-webapp-backend/internal/http/response"
	"github.com/soniq-music/soniq-webapp-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List serves the faceted song listing. Every facet is a query param and
// repeated params widen that facet.
func (ch *CatalogHandler) List(c *gin.Context) {
	params := services.FilterParams{
		Title:    c.QueryArray("title"),
		Album:    c.QueryArray("album"),
		Language: c.QueryArray("language"),
		Artist:   c.QueryArray("artist"),
		Genre:    c.QueryArray("genre"),
		Mood:     c.QueryArray("mood"),
		Director: c.QueryArray("director"),
		Year:     c.Query("year"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
	}
	songs, info, err := ch.catalogService.List(c.Request.Context(), params)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"songs": songs, "pagination": info})
}

func (ch *CatalogHandler) Search(c *gin.Context) {
	params := services.FreeTextParams{
		Query:  c.Query("query"),
		Mood:   c.Query("mood"),
		Genre:  c.Query("genre"),
		Artist: c.Query("artist"),
		Decade: c.Query("decade"),
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
	}
	results, err := ch.catalogService.FreeText(c.Request.Context(), params)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, results)
}

func (ch *CatalogHandler) Suggestions(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_uid", err)
		return
	}
	songs, err := ch.catalogService.Suggestions(c.Request.Context(), uid)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"songs": songs})
}

func (ch *CatalogHandler) Translations(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_uid", err)
		return
	}
	songs, err := ch.catalogService.Translations(c.Request.Context(), uid)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"songs": songs})
}

func (ch *CatalogHandler) AlbumSongs(c *gin.Context) {
	songs, info, err := ch.catalogService.AlbumSongs(c.Request.Context(), c.Param("albumName"), c.Query("page"), c.Query("limit"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"songs": songs, "pagination": info})
}

func (ch *CatalogHandler) RelatedSongs(c *gin.Context) {
	kind := catalogrepo.RelationKind(c.Param("kind"))
	switch kind {
	case catalogrepo.RelationPerformer, catalogrepo.RelationDirector, catalogrepo.RelationGenre, catalogrepo.RelationMood:
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_relation", nil)
		return
	}
	songs, info, err := ch.catalogService.RelatedSongs(c.Request.Context(), kind, c.Param("name"), c.Query("page"), c.Query("limit"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"songs": songs, "pagination": info})
}
