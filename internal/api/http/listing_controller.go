package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/basha_lagbe/internal/api/http/converter"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type ListingController struct {
	listings service.ListingInteractor
	log      *slog.Logger
}

func NewListingController(listings service.ListingInteractor, log *slog.Logger) *ListingController {
	return &ListingController{listings: listings, log: log}
}

func (c *ListingController) Search(ctx *gin.Context) {
	var query converter.ListingQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, bindingMessage(err))
		return
	}

	listings, err := c.listings.SearchListings(ctx.Request.Context(), converter.ListingFilterFromApi(&query))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (c *ListingController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "listingID")
	if !ok {
		return
	}

	listing, err := c.listings.GetListing(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"listing": listing})
}

func (c *ListingController) Create(ctx *gin.Context) {
	var req converter.ListingRequest
	if !bindJSON(ctx, &req) {
		return
	}

	listing, err := c.listings.CreateListing(ctx.Request.Context(), principal(ctx), converter.ListingInputFromApi(&req))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"listing": listing})
}

func (c *ListingController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "listingID")
	if !ok {
		return
	}
	var req converter.ListingRequest
	if !bindJSON(ctx, &req) {
		return
	}

	listing, err := c.listings.UpdateListing(ctx.Request.Context(), principal(ctx).ID, id, converter.ListingInputFromApi(&req))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"listing": listing})
}

func (c *ListingController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "listingID")
	if !ok {
		return
	}

	if err := c.listings.DeleteListing(ctx.Request.Context(), principal(ctx).ID, id); err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (c *ListingController) Mine(ctx *gin.Context) {
	listings, err := c.listings.ListOwnerListings(ctx.Request.Context(), principal(ctx).ID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"listings": listings})
}

// UploadImage accepts a multipart form with the file under "image".
func (c *ListingController) UploadImage(ctx *gin.Context) {
	id, ok := pathID(ctx, "listingID")
	if !ok {
		return
	}

	header, err := ctx.FormFile("image")
	if err != nil {
		badRequest(ctx, "image file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(ctx, "cannot read image file")
		return
	}
	defer file.Close()

	listing, err := c.listings.UploadImage(ctx.Request.Context(), principal(ctx).ID, id, service.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"listing": listing})
}
