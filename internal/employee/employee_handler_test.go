package employee_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hris-payroll/internal/employee"
	employeeerrors "hris-payroll/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	GetByIDFn    func(ctx context.Context, id string) (employee.EmployeeResponse, error)
	GetOptionsFn func(ctx context.Context) ([]employee.EmployeeOption, error)
}

func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context) ([]employee.EmployeeOption, error) {
	return f.GetOptionsFn(ctx)
}

func TestEmployeeHandler_GetById(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := employee.NewHandler(&fakeEmployeeService{
		GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
			if id == "missing" {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			}
			return employee.EmployeeResponse{ID: id, FirstName: "Ana"}, nil
		},
	})

	tests := []struct {
		id       string
		wantCode int
		wantBody string
	}{
		{"e-1", http.StatusOK, `"first_name":"Ana"`},
		{"missing", http.StatusNotFound, "Employee not found"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/employees/"+tt.id, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}

			h.GetById(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
