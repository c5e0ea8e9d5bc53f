package handlers

import (
	"github.com/campusdesk/swo-feedback/middleware"
	"github.com/gin-gonic/gin"
)

type FacultyHandler struct {
	faculties FacultyServiceInterface
}

func NewFacultyHandler(faculties FacultyServiceInterface) *FacultyHandler {
	return &FacultyHandler{faculties: faculties}
}

// ListActiveFaculty godoc
// @Summary Active faculty dropdown
// @Description Lists active faculty members. Defaults to the caller's department unless department_id is given; pass department_id=all for every department.
// @Tags faculties
// @Produce json
// @Param department_id query string false "Department filter"
// @Success 200 {object} types.APIResponse{data=[]types.Faculty}
// @Router /faculties/dropdown/active [get]
// @Security BearerAuth
func (h *FacultyHandler) ListActiveFaculty(c *gin.Context) {
	dept := optionalQuery(c, "department_id")
	if dept == nil {
		if own := c.GetString(middleware.DepartmentIDKey); own != "" {
			dept = &own
		}
	} else if *dept == "all" {
		dept = nil
	}

	items, err := h.faculties.ListActive(c.Request.Context(), dept)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, items)
}
