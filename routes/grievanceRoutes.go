package routes

import (
	"grievance-portal-be/controllers"
	"grievance-portal-be/middlewares"

	"github.com/gin-gonic/gin"
)

// GrievanceRoutes sets up the grievance routes. Every route requires an
// authenticated principal; creation is rate limited per user.
func GrievanceRoutes(r *gin.Engine) {
	grievance := r.Group("/api/grievances", middlewares.AuthMiddleware())
	{
		grievance.POST("",
			middlewares.GrievanceRateLimiter(10),
			middlewares.SingleUpload("photo"),
			controllers.CreateGrievance)
		grievance.GET("", controllers.GetGrievances)
		grievance.GET("/:id", controllers.GetGrievance)
		grievance.PUT("/:id",
			middlewares.SingleUpload("photo"),
			controllers.UpdateGrievance)
		grievance.POST("/:id/comments", controllers.AddComment)
	}
}
