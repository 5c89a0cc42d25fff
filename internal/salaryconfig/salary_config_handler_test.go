package salaryconfig_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hris-payroll/internal/salaryconfig"
	salaryconfigerrors "hris-payroll/internal/salaryconfig/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeConfigService struct {
	updateFn func(ctx context.Context, employeeID string, req salaryconfig.UpdateSalaryConfigRequest) (salaryconfig.SalaryConfigResponse, error)
}

func (f *fakeConfigService) GetAll(ctx context.Context) ([]salaryconfig.SalaryConfigResponse, error) {
	return nil, nil
}
func (f *fakeConfigService) GetByEmployee(ctx context.Context, employeeID string) (salaryconfig.SalaryConfigResponse, error) {
	return salaryconfig.SalaryConfigResponse{}, salaryconfigerrors.ErrSalaryConfigNotFound
}
func (f *fakeConfigService) Update(ctx context.Context, employeeID string, req salaryconfig.UpdateSalaryConfigRequest) (salaryconfig.SalaryConfigResponse, error) {
	return f.updateFn(ctx, employeeID, req)
}

func TestSalaryConfigHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := salaryconfig.NewHandler(&fakeConfigService{
		updateFn: func(ctx context.Context, employeeID string, req salaryconfig.UpdateSalaryConfigRequest) (salaryconfig.SalaryConfigResponse, error) {
			if req.BaseSalary != nil && *req.BaseSalary == "-5" {
				return salaryconfig.SalaryConfigResponse{}, salaryconfigerrors.ErrInvalidAmount
			}
			return salaryconfig.SalaryConfigResponse{EmployeeID: employeeID, BaseSalary: "100.00"}, nil
		},
	})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"ok", `{"base_salary":"100"}`, http.StatusOK, `"base_salary":"100.00"`},
		{"negative", `{"base_salary":"-5"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed", `{"base_salary":`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPatch, "/salary-config/e1", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Params = gin.Params{{Key: "employeeId", Value: "e1"}}

			h.Update(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestSalaryConfigHandler_GetByEmployeeNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := salaryconfig.NewHandler(&fakeConfigService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/salary-config/e1", nil)
	c.Params = gin.Params{{Key: "employeeId", Value: "e1"}}

	h.GetByEmployee(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Salary config not found")
}
