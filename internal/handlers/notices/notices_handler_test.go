package notices

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-agent/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAndDismiss(t *testing.T) {
	gin.SetMode(gin.TestMode)
	board := notify.NewBoard(0)
	keep := notify.New(notify.LevelInfo, "keep")
	drop := notify.New(notify.LevelError, "drop")
	board.Notify(keep)
	board.Notify(drop)

	r := gin.New()
	h := NewNoticesHandler(board, board)
	r.GET("/notices", h.List)
	r.DELETE("/notices/:id", h.Dismiss)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notices/"+drop.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notices/"+drop.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notices", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []notify.Notice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, keep.ID, body.Data[0].ID)
}
