package testutil

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID_Deterministic(t *testing.T) {
	assert.Equal(t, NewTestUUID("factory"), NewTestUUID("factory"))
	assert.NotEqual(t, NewTestUUID("factory"), NewTestUUID("retail"))
}

func TestNewSupplyChainDB_EnforcesForeignKeys(t *testing.T) {
	db := NewSupplyChainDB(t)

	err := db.Exec(`INSERT INTO products (id, name, network_id, created_at, updated_at)
		VALUES ('p1', 'Phone', 'missing', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error
	assert.Error(t, err)
}

func TestNewMockDB(t *testing.T) {
	m := NewMockDB(t)
	m.Mock.ExpectExec(`DELETE FROM "networks"`).WillReturnResult(sqlmock.NewResult(0, 2))

	res := m.DB.Exec(`DELETE FROM "networks"`)
	require.NoError(t, res.Error)
	assert.Equal(t, int64(2), res.RowsAffected)
	m.ExpectationsWereMet(t)
}

func TestPerformRequest(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		require.NoError(t, c.ShouldBindJSON(&body))
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body, "trace": c.GetHeader("X-Trace")})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "network not found"}})
	})

	w := PerformRequest(t, engine, Request{
		Method:  http.MethodPost,
		Path:    "/echo",
		Body:    map[string]string{"name": "Factory"},
		Headers: map[string]string{"X-Trace": "abc"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	AssertSuccessResponse(t, w)
	resp := JSONResponse(t, w)
	assert.Equal(t, "abc", resp["trace"])

	w = PerformRequest(t, engine, Request{Path: "/fail"})
	assert.Equal(t, "network not found", AssertErrorResponse(t, w, "NOT_FOUND"))
}
