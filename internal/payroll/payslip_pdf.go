package payroll

import (
	"bytes"
	"fmt"

	"hris-payroll/internal/shared/money"

	"github.com/jung-kurt/gofpdf"
)

func payslipFilename(p *Payslip) string {
	if p.PayrollPeriod != nil {
		return fmt.Sprintf("payslip-%04d-%02d-%s.pdf", p.PayrollPeriod.Year, p.PayrollPeriod.Month, p.EmployeeID)
	}
	return fmt.Sprintf("payslip-%s.pdf", p.ID)
}

func archiveKey(period *PayrollPeriod, p *Payslip) string {
	return fmt.Sprintf("payslips/%04d/%02d/%s.pdf", period.Year, period.Month, p.EmployeeID)
}

// renderPayslipPDF draws a single A4 page with the employee header and a
// two column table of the payslip figures.
func renderPayslipPDF(p *Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip", false)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Payslip", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	if p.PayrollPeriod != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Period: %02d/%04d", p.PayrollPeriod.Month, p.PayrollPeriod.Year), "", 1, "L", false, 0, "")
	}
	if p.Employee != nil {
		pdf.CellFormat(0, 7, "Employee: "+p.Employee.FullName(), "", 1, "L", false, 0, "")
		if dept := p.Employee.DepartmentName(); dept != "" {
			pdf.CellFormat(0, 7, "Department: "+dept, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	rows := [][2]string{
		{"Actual work days", fmt.Sprintf("%d", p.ActualWorkDays)},
		{"Overtime hours", money.Format(p.OTHours)},
		{"Gross salary", money.Format(p.GrossSalary)},
		{"Bonus", money.Format(p.Bonus)},
		{"Deductions", money.Format(p.Deductions)},
	}
	for _, r := range rows {
		pdf.CellFormat(90, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, r[1], "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Net salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, money.Format(p.NetSalary), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
