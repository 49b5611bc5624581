package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/infra"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService renders closed shifts as downloadable documents.
type ExportService interface {
	ShiftWorkbook(ctx context.Context, businessID, shiftID uuid.UUID) (*excelize.File, string, error)
	ShiftPDF(ctx context.Context, businessID, shiftID uuid.UUID) (string, string, error)
}

type exportService struct {
	shifts      repository.ShiftRepository
	businesses  repository.BusinessRepository
	storagePath string
}

func NewExportService(shifts repository.ShiftRepository, businesses repository.BusinessRepository, storagePath string) ExportService {
	return &exportService{shifts: shifts, businesses: businesses, storagePath: storagePath}
}

func (s *exportService) load(ctx context.Context, businessID, shiftID uuid.UUID) (*model.Shift, *model.Business, error) {
	shift, err := s.shifts.FindByID(ctx, businessID, shiftID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apierror.NotFound("Caja no encontrada")
	}
	if err != nil {
		return nil, nil, apierror.Persistence(err)
	}
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, nil, apierror.Persistence(err)
	}
	return shift, business, nil
}

func (s *exportService) ShiftWorkbook(ctx context.Context, businessID, shiftID uuid.UUID) (*excelize.File, string, error) {
	shift, business, err := s.load(ctx, businessID, shiftID)
	if err != nil {
		return nil, "", err
	}
	f, err := infra.BuildShiftCloseWorkbook(shift, business)
	if err != nil {
		return nil, "", apierror.Persistence(err)
	}
	return f, fmt.Sprintf("corte_%s.xlsx", shiftID), nil
}

func (s *exportService) ShiftPDF(ctx context.Context, businessID, shiftID uuid.UUID) (string, string, error) {
	shift, business, err := s.load(ctx, businessID, shiftID)
	if err != nil {
		return "", "", err
	}
	path, err := infra.GenerateShiftClosePDF(shift, business, s.storagePath)
	if err != nil {
		return "", "", apierror.Persistence(err)
	}
	return path, fmt.Sprintf("corte_%s.pdf", shiftID), nil
}
