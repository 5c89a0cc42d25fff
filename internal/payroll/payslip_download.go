package payroll

import (
	"context"
	"errors"

	payrollerrors "hris-payroll/internal/payroll/errors"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/database"
	"hris-payroll/internal/shared/tokenstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const downloadPathPrefix = "/api/v1/payroll/payslips/download/"

func (s *service) IssueDownloadToken(ctx context.Context, payslipID, requesterID string, canViewAll bool) (DownloadTokenResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	id, err := uuid.Parse(payslipID)
	if err != nil {
		return DownloadTokenResponse{}, payrollerrors.ErrInvalidPayslipID
	}
	if s.Tokens == nil {
		return DownloadTokenResponse{}, payrollerrors.ErrDownloadsDisabled
	}

	p, err := s.Repo.FindPayslipByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return DownloadTokenResponse{}, payrollerrors.ErrPayslipNotFound
		}
		log.Error("download token payslip lookup failed", zap.Error(err))
		return DownloadTokenResponse{}, err
	}
	if !canViewAll && p.EmployeeID.String() != requesterID {
		log.Warn("download token rejected: foreign payslip",
			zap.String("payslip_id", payslipID),
			zap.String("requester_id", requesterID),
		)
		return DownloadTokenResponse{}, payrollerrors.ErrPayslipForbidden
	}

	token, err := s.Tokens.Issue(ctx, p.ID.String(), s.cfg.PayslipTokenTTL)
	if err != nil {
		log.Error("download token issue failed", zap.Error(err))
		return DownloadTokenResponse{}, err
	}
	return DownloadTokenResponse{
		Token:       token,
		DownloadURL: downloadPathPrefix + token,
		ExpiresIn:   int(s.cfg.PayslipTokenTTL.Seconds()),
	}, nil
}

// RenderByToken consumes a download token and returns the file name and PDF
// bytes of the payslip it was issued for.
func (s *service) RenderByToken(ctx context.Context, token string) (string, []byte, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if s.Tokens == nil {
		return "", nil, payrollerrors.ErrDownloadsDisabled
	}

	raw, err := s.Tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return "", nil, payrollerrors.ErrDownloadTokenInvalid
		}
		log.Error("download token consume failed", zap.Error(err))
		return "", nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", nil, payrollerrors.ErrDownloadTokenInvalid
	}

	p, err := s.Repo.FindPayslipByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return "", nil, payrollerrors.ErrPayslipNotFound
		}
		return "", nil, err
	}

	pdf, err := renderPayslipPDF(p)
	if err != nil {
		log.Error("render payslip pdf failed", zap.Error(err))
		return "", nil, err
	}
	return payslipFilename(p), pdf, nil
}

// ArchivePeriod renders every payslip of a period and writes it to the
// object store. It returns the number of files written.
func (s *service) ArchivePeriod(ctx context.Context, periodID int64) (int, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if s.Store == nil {
		return 0, payrollerrors.ErrArchiveDisabled
	}

	period, err := s.Repo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if database.IsNotFound(err) {
			return 0, payrollerrors.ErrPeriodNotFound
		}
		return 0, err
	}
	rows, err := s.Repo.ListPayslipsByPeriod(ctx, periodID)
	if err != nil {
		return 0, err
	}

	written := 0
	for i := range rows {
		p := &rows[i]
		p.PayrollPeriod = period

		pdf, err := renderPayslipPDF(p)
		if err != nil {
			return written, err
		}
		if err := s.Store.Put(ctx, archiveKey(period, p), "application/pdf", pdf); err != nil {
			log.Error("archive payslip failed",
				zap.String("payslip_id", p.ID.String()),
				zap.Error(err),
			)
			return written, err
		}
		written++
	}

	log.Info("payslips archived",
		zap.Int64("period_id", periodID),
		zap.Int("count", written),
	)
	return written, nil
}
