package payroll

import (
	"context"

	payrollerrors "hris-payroll/internal/payroll/errors"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/database"

	"go.uber.org/zap"
)

func (s *service) OpenPeriod(ctx context.Context, month, year int) (PeriodResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if err := validatePeriod(month, year); err != nil {
		log.Warn("open period rejected", zap.Error(err))
		return PeriodResponse{}, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Error("open period begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	period, err := s.openPeriodTx(ctx, s.Repo.WithTx(tx), month, year)
	if err != nil {
		return PeriodResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("open period commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	return mapPeriod(period), nil
}

// openPeriodTx serializes on the month's advisory lock, then inserts the
// period unless it already exists and reads it back.
func (s *service) openPeriodTx(ctx context.Context, qtx Repository, month, year int) (*PayrollPeriod, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if err := qtx.LockPeriod(ctx, month, year); err != nil {
		log.Error("payroll period lock failed", zap.Error(err))
		return nil, err
	}
	if err := qtx.InsertPeriodIfAbsent(ctx, month, year, s.cfg.StandardWorkDays); err != nil {
		log.Error("payroll period insert failed", zap.Error(err))
		return nil, err
	}
	period, err := qtx.FindPeriod(ctx, month, year)
	if err != nil {
		if database.IsNotFound(err) {
			log.Error("payroll period missing after open",
				zap.Int("month", month),
				zap.Int("year", year),
			)
			return nil, payrollerrors.ErrPeriodMissing
		}
		return nil, err
	}
	return period, nil
}

func (s *service) GetPeriod(ctx context.Context, month, year int) (PeriodResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return PeriodResponse{}, err
	}

	period, err := s.Repo.FindPeriod(ctx, month, year)
	if err != nil {
		if database.IsNotFound(err) {
			return PeriodResponse{}, payrollerrors.ErrPeriodNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("get period failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	return mapPeriod(period), nil
}

func (s *service) UpdatePeriodStatus(ctx context.Context, periodID string, req UpdatePeriodStatusRequest) (PeriodResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update period status requested",
		zap.String("period_id", periodID),
		zap.String("status", req.Status),
	)

	id, err := parsePeriodID(periodID)
	if err != nil {
		return PeriodResponse{}, err
	}
	if !IsValidPeriodStatus(req.Status) {
		return PeriodResponse{}, payrollerrors.ErrInvalidPeriodStatus
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update period status begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.Repo.WithTx(tx)

	period, err := qtx.FindPeriodByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return PeriodResponse{}, payrollerrors.ErrPeriodNotFound
		}
		log.Error("update period status lookup failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	if period.Status == req.Status {
		return mapPeriod(period), nil
	}
	if !CanTransitionPeriod(period.Status, req.Status) {
		log.Warn("update period status rejected",
			zap.Int64("period_id", id),
			zap.String("from", period.Status),
			zap.String("to", req.Status),
		)
		return PeriodResponse{}, payrollerrors.ErrInvalidPeriodTransition
	}

	if err := qtx.UpdatePeriodStatus(ctx, id, req.Status); err != nil {
		log.Error("update period status failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("update period status commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	period.Status = req.Status
	log.Info("payroll period status updated",
		zap.Int64("period_id", id),
		zap.String("status", req.Status),
	)
	return mapPeriod(period), nil
}
