package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"grievance-portal-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildListFilter_ScopesNonAdminsToOwnRecords(t *testing.T) {
	userID := primitive.NewObjectID()

	for _, role := range []models.UserRole{models.RoleStudent, models.RoleStaff, models.RoleDepartmentUser} {
		filter := buildListFilter(Caller{ID: userID, Role: role}, "", "", "")
		assert.Equal(t, userID, filter["submittedBy"], "role %s must be scoped to own records", role)
	}

	adminFilter := buildListFilter(Caller{ID: userID, Role: models.RoleAdmin}, "", "", "")
	_, scoped := adminFilter["submittedBy"]
	assert.False(t, scoped, "admins see all records")
}

func TestBuildListFilter_CombinesQueryFilters(t *testing.T) {
	admin := Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	filter := buildListFilter(admin, "Pending", "Hostel", "High")

	assert.Equal(t, bson.M{
		"status":   "Pending",
		"category": "Hostel",
		"priority": "High",
	}, filter)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bson.D
	}{
		{
			name:  "default newest first",
			query: "",
			want:  bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			name:  "single ascending field",
			query: "priority",
			want:  bson.D{{Key: "priority", Value: 1}},
		},
		{
			name:  "descending prefix",
			query: "-updatedAt",
			want:  bson.D{{Key: "updatedAt", Value: -1}},
		},
		{
			name:  "comma separated list keeps order",
			query: "status,-createdAt",
			want:  bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			name:  "blank entries dropped",
			query: ",, -createdAt ,",
			want:  bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			name:  "only blanks falls back to default",
			query: ",,",
			want:  bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSort(tt.query))
		})
	}
}

func TestCallerFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("valid id and role", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := primitive.NewObjectID()
		c.Set("user_id", id.Hex())
		c.Set("role", "admin")

		caller, ok := callerFromContext(c)

		require.True(t, ok)
		assert.Equal(t, id, caller.ID)
		assert.Equal(t, models.RoleAdmin, caller.Role)
	})

	t.Run("unknown role falls back to student", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id", primitive.NewObjectID().Hex())
		c.Set("role", "superuser")

		caller, ok := callerFromContext(c)

		require.True(t, ok)
		assert.Equal(t, models.RoleStudent, caller.Role)
	})

	t.Run("missing user id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		_, ok := callerFromContext(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed user id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id", "nope")

		_, ok := callerFromContext(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAttachmentFromUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("no upload on context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Nil(t, attachmentFromUpload(c))
	})

	t.Run("upload recorded by middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("upload_path", "uploads/abc123.png")
		c.Set("upload_name", "abc123.png")

		attachment := attachmentFromUpload(c)

		require.NotNil(t, attachment)
		assert.Equal(t, "uploads/abc123.png", attachment.URL)
		assert.Equal(t, "abc123.png", attachment.PublicID)
		assert.False(t, attachment.UploadedAt.IsZero())
	})
}
