package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"grievance-portal-be/config"
	"grievance-portal-be/models"
	authUtils "grievance-portal-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func grievanceCollection() *mongo.Collection { return config.GetCollection("grievances") }
func userCollection() *mongo.Collection      { return config.GetCollection("users") }
func departmentCollection() *mongo.Collection {
	return config.GetCollection("departments")
}

// sendSMS is swappable in tests.
var sendSMS = authUtils.SendSMS

// callerFromContext resolves the authenticated caller placed on the context
// by the auth middleware. Writes the error response itself on failure.
func callerFromContext(c *gin.Context) (Caller, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return Caller{}, false
	}

	id, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return Caller{}, false
	}

	role := models.RoleStudent
	if roleVal, exists := c.Get("role"); exists {
		if roleStr, ok := roleVal.(string); ok && models.ValidRole(roleStr) {
			role = models.UserRole(roleStr)
		}
	}

	return Caller{ID: id, Role: role}, true
}

// attachmentFromUpload picks up the file stored by the upload middleware, if
// the request carried one.
func attachmentFromUpload(c *gin.Context) *models.Attachment {
	path, okPath := c.Get("upload_path")
	name, okName := c.Get("upload_name")
	if !okPath || !okName {
		return nil
	}
	return &models.Attachment{
		URL:        path.(string),
		PublicID:   name.(string),
		UploadedAt: time.Now(),
	}
}

// CreateGrievance handles POST /api/grievances
func CreateGrievance(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	category := c.PostForm("category")
	priority := c.PostForm("priority")

	// Mirror of the store-level schema validation: every violation surfaces
	// as a 500 with the message, same as any other failure.
	var validationErr error
	switch {
	case title == "":
		validationErr = fmt.Errorf("please provide a title for your grievance")
	case len(title) > models.TitleMaxLength:
		validationErr = fmt.Errorf("title cannot be more than %d characters", models.TitleMaxLength)
	case description == "":
		validationErr = fmt.Errorf("please provide a description of your grievance")
	case !models.ValidCategory(category):
		validationErr = fmt.Errorf("please select a valid category")
	}
	if validationErr == nil && priority != "" && !models.ValidPriority(priority) {
		validationErr = fmt.Errorf("invalid priority %q", priority)
	}
	if validationErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": validationErr.Error()})
		return
	}
	if priority == "" {
		priority = string(models.Medium)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Route the grievance to the department that owns the category. A missing
	// department record just leaves the reference unset.
	var department *primitive.ObjectID
	if code := models.DepartmentCodeForCategory(models.GrievanceCategory(category)); code != "" {
		var dept models.Department
		if err := departmentCollection().FindOne(ctx, bson.M{"departmentId": code}).Decode(&dept); err == nil {
			department = &dept.ID
		}
	}

	attachments := []models.Attachment{}
	if attachment := attachmentFromUpload(c); attachment != nil {
		attachments = append(attachments, *attachment)
	}

	now := time.Now()
	grievance := models.Grievance{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Category:    models.GrievanceCategory(category),
		Status:      models.Pending,
		Priority:    models.GrievancePriority(priority),
		Attachments: attachments,
		Comments:    []models.Comment{},
		SubmittedBy: caller.ID,
		Department:  department,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := grievanceCollection().InsertOne(ctx, grievance); err != nil {
		log.Println("Grievance creation error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	notifySubmitter(ctx, caller.ID, grievance.Title)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": grievance})
}

// notifySubmitter texts the submitter that the grievance was registered.
// Failures are logged and swallowed; creation already succeeded.
func notifySubmitter(ctx context.Context, userID primitive.ObjectID, title string) {
	var user models.User
	if err := userCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		log.Println("Failed to load user for SMS:", err)
		return
	}
	if user.PhoneNumber == "" {
		return
	}

	message := fmt.Sprintf("Dear %s, your grievance %q has been registered successfully!", user.Name, title)
	if err := sendSMS(ctx, "+91"+user.PhoneNumber, message); err != nil {
		log.Println("Failed to send SMS:", err)
	}
}

// buildListFilter scopes the listing to the caller (non-admins only see what
// they submitted) and applies the exact-match query filters.
func buildListFilter(caller Caller, status, category, priority string) bson.M {
	filter := bson.M{}
	if caller.Role != models.RoleAdmin {
		filter["submittedBy"] = caller.ID
	}
	if status != "" {
		filter["status"] = status
	}
	if category != "" {
		filter["category"] = category
	}
	if priority != "" {
		filter["priority"] = priority
	}
	return filter
}

// parseSort turns the comma-separated sort query ("-createdAt,priority")
// into a sort document. Defaults to newest first.
func parseSort(sortQuery string) bson.D {
	if sortQuery == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	sortDoc := bson.D{}
	for _, field := range strings.Split(sortQuery, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		if field != "" {
			sortDoc = append(sortDoc, bson.E{Key: field, Value: order})
		}
	}
	if len(sortDoc) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return sortDoc
}

// userSummary expands a user reference the way the legacy API populates it.
func userSummary(ctx context.Context, id primitive.ObjectID, includeStudent bool) map[string]interface{} {
	summary := map[string]interface{}{"id": id}

	var user models.User
	if err := userCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err == nil {
		summary["name"] = user.Name
		summary["email"] = user.Email
		if includeStudent {
			summary["studentId"] = user.StudentID
			summary["department"] = user.Department
		}
	}

	return summary
}

// commentAuthorSummary expands a comment author with name, email and role.
func commentAuthorSummary(ctx context.Context, id primitive.ObjectID) map[string]interface{} {
	summary := map[string]interface{}{"id": id}

	var user models.User
	if err := userCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err == nil {
		summary["name"] = user.Name
		summary["email"] = user.Email
		summary["role"] = user.Role
	}

	return summary
}

// grievanceDoc renders a grievance with its references expanded.
func grievanceDoc(ctx context.Context, grievance models.Grievance, withCommentAuthors bool) gin.H {
	doc := gin.H{
		"id":          grievance.ID,
		"title":       grievance.Title,
		"description": grievance.Description,
		"category":    grievance.Category,
		"status":      grievance.Status,
		"priority":    grievance.Priority,
		"attachments": grievance.Attachments,
		"submittedBy": userSummary(ctx, grievance.SubmittedBy, true),
		"createdAt":   grievance.CreatedAt,
		"updatedAt":   grievance.UpdatedAt,
	}

	if grievance.AssignedTo != nil {
		doc["assignedTo"] = userSummary(ctx, *grievance.AssignedTo, false)
	}
	if grievance.Department != nil {
		doc["department"] = *grievance.Department
	}

	if withCommentAuthors {
		comments := make([]gin.H, 0, len(grievance.Comments))
		for _, comment := range grievance.Comments {
			comments = append(comments, gin.H{
				"text":      comment.Text,
				"user":      commentAuthorSummary(ctx, comment.User),
				"createdAt": comment.CreatedAt,
			})
		}
		doc["comments"] = comments
	} else {
		doc["comments"] = grievance.Comments
	}

	return doc
}

// GetGrievances handles GET /api/grievances
func GetGrievances(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := buildListFilter(caller, c.Query("status"), c.Query("category"), c.Query("priority"))
	findOptions := options.Find().SetSort(parseSort(c.Query("sort")))

	cursor, err := grievanceCollection().Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var grievances []models.Grievance
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	data := make([]gin.H, 0, len(grievances))
	for _, grievance := range grievances {
		data = append(data, grievanceDoc(ctx, grievance, false))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(data),
		"data":    data,
	})
}

// GetGrievance handles GET /api/grievances/:id
func GetGrievance(c *gin.Context) {
	grievanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid grievance ID"})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var grievance models.Grievance
	err = grievanceCollection().FindOne(ctx, bson.M{"_id": grievanceID}).Decode(&grievance)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Grievance not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	if caller.Role != models.RoleAdmin && grievance.SubmittedBy != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to access this grievance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": grievanceDoc(ctx, grievance, true)})
}

// UpdateGrievance handles PUT /api/grievances/:id
func UpdateGrievance(c *gin.Context) {
	grievanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid grievance ID"})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var grievance models.Grievance
	err = grievanceCollection().FindOne(ctx, bson.M{"_id": grievanceID}).Decode(&grievance)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Grievance not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	input := UpdateInput{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    c.PostForm("category"),
		Priority:    c.PostForm("priority"),
		Status:      c.PostForm("status"),
		Department:  c.PostForm("department"),
		Attachment:  attachmentFromUpload(c),
	}

	decision, err := ResolveUpdate(caller, &grievance, input, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	switch decision {
	case DecisionForbidden:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this grievance"})

	case DecisionRejectPurge:
		if _, err := grievanceCollection().DeleteOne(ctx, bson.M{"_id": grievanceID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Grievance rejected and deleted."})

	case DecisionUpdated:
		if _, err := grievanceCollection().ReplaceOne(ctx, bson.M{"_id": grievanceID}, grievance); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": grievance})
	}
}

// AddComment handles POST /api/grievances/:id/comments
func AddComment(c *gin.Context) {
	grievanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid grievance ID"})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var grievance models.Grievance
	err = grievanceCollection().FindOne(ctx, bson.M{"_id": grievanceID}).Decode(&grievance)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Grievance not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	if caller.Role != models.RoleAdmin && grievance.SubmittedBy != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to comment"})
		return
	}

	grievance.Comments = append(grievance.Comments, models.Comment{
		Text:      input.Text,
		User:      caller.ID,
		CreatedAt: time.Now(),
	})
	grievance.UpdatedAt = time.Now()

	if _, err := grievanceCollection().ReplaceOne(ctx, bson.M{"_id": grievanceID}, grievance); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": grievance})
}
