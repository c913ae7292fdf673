package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
)

// GroupController handles group-related operations
type GroupController struct {
	groupService      services.GroupService
	membershipService services.MembershipService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService, membershipService services.MembershipService) *GroupController {
	return &GroupController{
		groupService:      groupService,
		membershipService: membershipService,
	}
}

// CreateGroup handles group creation
// @Summary Create a new group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body dto.CreateGroupRequest true "Group information"
// @Success 201 {object} dto.APIResponse{data=models.Group} "Group created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Group name or ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	group := req.ToModel()
	if err := c.groupService.CreateGroup(ctx.Request.Context(), group); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, group, "Group created successfully")
}

// GetAllGroups lists groups
// @Summary List groups
// @Description Lists all groups. With ?max_students=N only groups having at most N members are returned, each with its studentCount.
// @Tags groups
// @Produce json
// @Param max_students query int false "Inclusive upper bound on member count" minimum(0)
// @Param count query int false "Alias of max_students" minimum(0)
// @Success 200 {object} dto.APIResponse{data=[]models.GroupWithCount} "Groups retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups [get]
func (c *GroupController) GetAllGroups(ctx *gin.Context) {
	var query dto.GroupListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	if limit := query.Threshold(); limit != nil {
		groups, err := c.groupService.GetGroupsWithMaxStudents(ctx.Request.Context(), *limit)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, groups, "Groups retrieved successfully")
		return
	}

	groups, err := c.groupService.GetAllGroups(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, groups, "Groups retrieved successfully")
}

// GetGroupByID retrieves a group by ID
// @Summary Get group details
// @Tags groups
// @Produce json
// @Param id path int true "Group ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Group} "Group retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "group ID")
	if !ok {
		return
	}

	group, err := c.groupService.GetGroupByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, group, "Group retrieved successfully")
}

// UpdateGroup renames a group
// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID" Format(int64) minimum(1)
// @Param request body dto.UpdateGroupRequest true "Updated group information"
// @Success 200 {object} dto.APIResponse{data=models.Group} "Group updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Group name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "group ID")
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	group := req.ToModel(id)
	if err := c.groupService.UpdateGroup(ctx.Request.Context(), group); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, group, "Group updated successfully")
}

// DeleteGroup deletes a group
// @Summary Delete a group
// @Description Deletes a group together with its memberships
// @Tags groups
// @Produce json
// @Param id path int true "Group ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Group deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "group ID")
	if !ok {
		return
	}

	if err := c.groupService.DeleteGroup(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Group deleted successfully")
}

// GetGroupStudents lists the members of a group
// @Summary List students of a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Group students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/students [get]
func (c *GroupController) GetGroupStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "group ID")
	if !ok {
		return
	}

	students, err := c.membershipService.GetGroupStudents(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students, "Group students retrieved successfully")
}

// AddStudent puts a student into the group
// @Summary Add a student to a group
// @Description Adds a student to a group. Under the single-group policy a student already in another group is rejected with 409.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID" Format(int64) minimum(1)
// @Param studentId path int true "Student ID" Format(int64) minimum(1)
// @Success 201 {object} dto.APIResponse "Student added to group successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Student or group not found"
// @Failure 409 {object} dto.ErrorResponse "Student already in this or another group"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/students/{studentId} [post]
func (c *GroupController) AddStudent(ctx *gin.Context) {
	groupID, studentID, ok := parseIDPair(ctx, "group ID", "studentId", "student ID")
	if !ok {
		return
	}

	if err := c.membershipService.AddMember(ctx.Request.Context(), studentID, groupID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, nil, "Student added to group successfully")
}

// RemoveStudent takes a student out of the group
// @Summary Remove a student from a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID" Format(int64) minimum(1)
// @Param studentId path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Student removed from group successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Student or group not found"
// @Failure 409 {object} dto.ErrorResponse "Student not a member of the group"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/students/{studentId} [delete]
func (c *GroupController) RemoveStudent(ctx *gin.Context) {
	groupID, studentID, ok := parseIDPair(ctx, "group ID", "studentId", "student ID")
	if !ok {
		return
	}

	if err := c.membershipService.RemoveMember(ctx.Request.Context(), studentID, groupID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Student removed from group successfully")
}
