package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestUploadListingImage(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.signup(t, "karim", "owner")
	other := srv.signup(t, "jamal", "owner")
	listingID := srv.createListing(t, owner)
	path := "/api/listings/" + listingID.String() + "/images"

	upload := func(token, fileName, contentType string) *httptest.ResponseRecorder {
		body, ct := multipartImage(t, fileName, contentType, []byte("\x89PNG fake image"))
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload(owner.Token, "flat.png", "image/png")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Listing struct {
			Images []string `json:"images"`
		} `json:"listing"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Listing.Images, 1)
	assert.True(t, strings.HasPrefix(resp.Listing.Images[0], "http://images.test/listing-images/"))

	rec = upload(other.Token, "flat.png", "image/png")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = upload(owner.Token, "notes.txt", "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, path, owner.Token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "image file is required", errorOf(t, rec))
}

func TestUpdateAndDeleteListing(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.signup(t, "karim", "owner")
	other := srv.signup(t, "jamal", "owner")
	listingID := srv.createListing(t, owner)
	path := "/api/listings/" + listingID.String()

	update := gin.H{"title": "Renovated flat", "city": "Dhaka", "pricePerMonth": 30000}

	rec := srv.do(t, http.MethodPut, path, other.Token, update)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPut, path, owner.Token, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Renovated flat")

	rec = srv.do(t, http.MethodDelete, path, owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
