package leave

import (
	"net/http"

	leaveerrors "hris-payroll/internal/leave/errors"
	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

// actorID is the caller's employee id. Accounts without an employee profile
// are refused, since every leave row references employees(id).
func actorID(c *gin.Context) (string, bool) {
	id := c.GetString("employee_id")
	if id == "" {
		writeServiceError(c, leaveerrors.ErrNoEmployeeProfile)
		return "", false
	}
	return id, true
}

func (h *Handler) Types(c *gin.Context) {
	resp, err := h.service.LeaveTypes(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.List(c, http.StatusOK, resp)
}

func (h *Handler) Balance(c *gin.Context) {
	employeeID, ok := actorID(c)
	if !ok {
		return
	}
	resp, err := h.service.Balance(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.List(c, http.StatusOK, resp)
}

func (h *Handler) MyRequests(c *gin.Context) {
	employeeID, ok := actorID(c)
	if !ok {
		return
	}
	resp, err := h.service.History(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.List(c, http.StatusOK, resp)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	employeeID, ok := actorID(c)
	if !ok {
		return
	}
	resp, err := h.service.Submit(c.Request.Context(), employeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) PendingRequests(c *gin.Context) {
	resp, err := h.service.PendingQueue(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.List(c, http.StatusOK, resp)
}

func (h *Handler) Decide(c *gin.Context) {
	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	approverID, ok := actorID(c)
	if !ok {
		return
	}
	resp, err := h.service.Decide(c.Request.Context(), approverID, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
