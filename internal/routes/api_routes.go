// tensu-crm/internal/routes/api_routes.go

package routes

import (
	"tensu-crm/internal/handlers"
	"tensu-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все API-маршруты консоли. Каждый ресурс
// защищен своим набором прав; роль admin проходит любые проверки.
func RegisterAPIRoutes(rg *gin.RouterGroup) {
	api := rg.Group("/api")

	// Профиль текущего сотрудника - без отдельного права, достаточно токена.
	api.GET("/profile", handlers.GetProfileHandler)
	api.PUT("/profile", handlers.UpdateProfileHandler)

	// Загрузка фото (аватары сотрудников и учеников).
	api.POST("/upload/photo", handlers.UploadPhotoHandler)

	// Живые статусы занятий для открытых консолей.
	api.GET("/ws/statuses", handlers.StatusWSEndpoint)

	// --- Клубы ---
	clubs := api.Group("/clubs")
	{
		clubs.GET("", middleware.PermissionMiddleware("clubs_view"), handlers.ListClubsHandler)
		clubs.POST("", middleware.PermissionMiddleware("clubs_create"), handlers.CreateClubHandler)
		clubs.GET("/:id", middleware.PermissionMiddleware("clubs_view"), handlers.GetClubHandler)
		clubs.PUT("/:id", middleware.PermissionMiddleware("clubs_edit"), handlers.UpdateClubHandler)
		clubs.DELETE("/:id", middleware.PermissionMiddleware("clubs_delete"), handlers.DeleteClubHandler)
	}

	// --- Секции ---
	sections := api.Group("/sections")
	{
		sections.GET("", middleware.PermissionMiddleware("sections_view"), handlers.ListSectionsHandler)
		sections.POST("", middleware.PermissionMiddleware("sections_create"), handlers.CreateSectionHandler)
		sections.GET("/:id", middleware.PermissionMiddleware("sections_view"), handlers.GetSectionHandler)
		sections.PUT("/:id", middleware.PermissionMiddleware("sections_edit"), handlers.UpdateSectionHandler)
		sections.DELETE("/:id", middleware.PermissionMiddleware("sections_delete"), handlers.DeleteSectionHandler)
	}

	// --- Группы ---
	groups := api.Group("/groups")
	{
		groups.GET("", middleware.PermissionMiddleware("groups_view"), handlers.ListGroupsHandler)
		groups.POST("", middleware.PermissionMiddleware("groups_create"), handlers.CreateGroupHandler)
		groups.GET("/:id", middleware.PermissionMiddleware("groups_view"), handlers.GetGroupHandler)
		groups.PUT("/:id", middleware.PermissionMiddleware("groups_edit"), handlers.UpdateGroupHandler)
		groups.DELETE("/:id", middleware.PermissionMiddleware("groups_delete"), handlers.DeleteGroupHandler)
	}

	// --- Ученики ---
	students := api.Group("/students")
	{
		students.GET("", middleware.PermissionMiddleware("students_view"), handlers.ListStudentsHandler)
		students.POST("", middleware.PermissionMiddleware("students_create"), handlers.CreateStudentHandler)
		students.GET("/:id", middleware.PermissionMiddleware("students_view"), handlers.GetStudentHandler)
		students.PUT("/:id", middleware.PermissionMiddleware("students_edit"), handlers.UpdateStudentHandler)
		students.DELETE("/:id", middleware.PermissionMiddleware("students_delete"), handlers.DeleteStudentHandler)
		students.POST("/:id/enroll", middleware.PermissionMiddleware("students_edit"), handlers.EnrollStudentHandler)
		students.POST("/:id/expel", middleware.PermissionMiddleware("students_edit"), handlers.ExpelStudentHandler)
	}

	// --- Сотрудники ---
	users := api.Group("/users")
	{
		users.GET("", middleware.PermissionMiddleware("users_view"), handlers.ListUsersHandler)
		users.POST("", middleware.PermissionMiddleware("users_create"), handlers.CreateUserHandler)
		users.GET("/:id", middleware.PermissionMiddleware("users_view"), handlers.GetUserHandler)
		users.PUT("/:id", middleware.PermissionMiddleware("users_edit"), handlers.UpdateUserHandler)
		users.DELETE("/:id", middleware.PermissionMiddleware("users_delete"), handlers.DeleteUserHandler)
	}

	// --- Роли и права ---
	roles := api.Group("/roles")
	{
		roles.GET("", middleware.PermissionMiddleware("roles_view"), handlers.ListRolesHandler)
		roles.POST("", middleware.PermissionMiddleware("roles_create"), handlers.CreateRoleHandler)
		roles.GET("/:id", middleware.PermissionMiddleware("roles_view"), handlers.GetRoleHandler)
		roles.PUT("/:id", middleware.PermissionMiddleware("roles_edit"), handlers.UpdateRoleHandler)
		roles.DELETE("/:id", middleware.PermissionMiddleware("roles_delete"), handlers.DeleteRoleHandler)
	}

	permissions := api.Group("/permissions")
	{
		permissions.GET("", middleware.PermissionMiddleware("roles_view"), handlers.ListPermissionsHandler)
		permissions.POST("", middleware.PermissionMiddleware("roles_edit"), handlers.CreatePermissionHandler)
		permissions.PUT("/:id", middleware.PermissionMiddleware("roles_edit"), handlers.UpdatePermissionHandler)
		permissions.DELETE("/:id", middleware.PermissionMiddleware("roles_edit"), handlers.DeletePermissionHandler)
	}

	// --- Расписания (недельные шаблоны) ---
	schedules := api.Group("/schedules")
	{
		schedules.GET("", middleware.PermissionMiddleware("schedules_view"), handlers.ListScheduleTemplatesHandler)
		schedules.POST("", middleware.PermissionMiddleware("schedules_create"), handlers.CreateScheduleTemplateHandler)
		schedules.PUT("/:id", middleware.PermissionMiddleware("schedules_edit"), handlers.UpdateScheduleTemplateHandler)
		schedules.DELETE("/:id", middleware.PermissionMiddleware("schedules_delete"), handlers.DeleteScheduleTemplateHandler)
		schedules.POST("/:id/generate-lessons", middleware.PermissionMiddleware("schedules_edit"), handlers.GenerateLessonsHandler)
		schedules.POST("/suggest-ai", middleware.PermissionMiddleware("schedules_edit"), handlers.SuggestScheduleAIHandler)
	}

	// --- Занятия ---
	lessons := api.Group("/lessons")
	{
		lessons.GET("", middleware.PermissionMiddleware("lessons_view"), handlers.ListLessonsHandler)
		lessons.POST("", middleware.PermissionMiddleware("lessons_create"), handlers.CreateLessonHandler)
		lessons.GET("/export", middleware.PermissionMiddleware("lessons_view"), handlers.ExportLessonsHandler)
		lessons.GET("/:id", middleware.PermissionMiddleware("lessons_view"), handlers.GetLessonHandler)
		lessons.PUT("/:id", middleware.PermissionMiddleware("lessons_edit"), handlers.UpdateLessonHandler)
		lessons.PATCH("/:id/status", middleware.PermissionMiddleware("lessons_edit"), handlers.UpdateLessonStatusHandler)
		lessons.DELETE("/:id", middleware.PermissionMiddleware("lessons_delete"), handlers.DeleteLessonHandler)
		lessons.GET("/:id/attendance", middleware.PermissionMiddleware("lessons_view"), handlers.GetLessonAttendanceHandler)
		lessons.POST("/:id/attendance", middleware.PermissionMiddleware("lessons_edit"), handlers.SaveLessonAttendanceHandler)
	}

	// --- Календарь ---
	api.GET("/calendar/month", middleware.PermissionMiddleware("lessons_view"), handlers.GetMonthGridHandler)
}
