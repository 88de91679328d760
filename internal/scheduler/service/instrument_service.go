package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
)

const maxSymbolLength = 20

// InstrumentService manages the tracked instrument list.
type InstrumentService interface {
	List(ctx context.Context, includeInactive bool) ([]*dto.InstrumentResponse, error)
	Add(ctx context.Context, req *dto.CreateInstrumentRequest) (*dto.InstrumentResponse, bool, error)
	Deactivate(ctx context.Context, symbol string) error
}

// NewInstrumentService creates a new instrument service.
func NewInstrumentService(instrumentRepo repository.InstrumentRepository, log *logger.Logger) InstrumentService {
	return &instrumentService{instrumentRepo: instrumentRepo, logger: log}
}

type instrumentService struct {
	instrumentRepo repository.InstrumentRepository
	logger         *logger.Logger
}

func (s *instrumentService) List(ctx context.Context, includeInactive bool) ([]*dto.InstrumentResponse, error) {
	instruments, err := s.instrumentRepo.FindAll(ctx, includeInactive)
	if err != nil {
		s.logger.Error("Failed to list instruments", logger.ErrorField(err))
		return nil, err
	}
	out := make([]*dto.InstrumentResponse, 0, len(instruments))
	for i := range instruments {
		out = append(out, mapToInstrumentResponse(&instruments[i]))
	}
	return out, nil
}

// Add starts tracking a symbol. When the symbol already exists the stored
// instrument is returned unchanged and created is false.
func (s *instrumentService) Add(ctx context.Context, req *dto.CreateInstrumentRequest) (*dto.InstrumentResponse, bool, error) {
	symbol := entity.NormalizeSymbol(req.Symbol)
	name := strings.TrimSpace(req.Name)
	if symbol == "" || len(symbol) > maxSymbolLength {
		return nil, false, fmt.Errorf("%w: symbol must be 1-%d characters", common.ErrInvalidInput, maxSymbolLength)
	}
	if name == "" {
		name = symbol
	}

	existing, err := s.instrumentRepo.FindBySymbol(ctx, symbol)
	if err == nil {
		return mapToInstrumentResponse(existing), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	instrument := &entity.Instrument{Symbol: symbol, Name: name, Active: true}
	if req.Sector != nil && strings.TrimSpace(*req.Sector) != "" {
		sector := strings.TrimSpace(*req.Sector)
		instrument.Sector = &sector
	}
	if err := s.instrumentRepo.Create(ctx, instrument); err != nil {
		// Lost a race with a concurrent add of the same symbol.
		if errors.Is(err, common.ErrDuplicateIngestion) {
			existing, findErr := s.instrumentRepo.FindBySymbol(ctx, symbol)
			if findErr != nil {
				return nil, false, findErr
			}
			return mapToInstrumentResponse(existing), false, nil
		}
		s.logger.Error("Failed to add instrument", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, false, err
	}

	s.logger.Info("Instrument added", logger.StringField("symbol", symbol))
	return mapToInstrumentResponse(instrument), true, nil
}

// Deactivate stops tracking a symbol; stored history is kept.
func (s *instrumentService) Deactivate(ctx context.Context, symbol string) error {
	symbol = entity.NormalizeSymbol(symbol)
	if err := s.instrumentRepo.Deactivate(ctx, symbol); err != nil {
		return err
	}
	s.logger.Info("Instrument deactivated", logger.StringField("symbol", symbol))
	return nil
}

func mapToInstrumentResponse(i *entity.Instrument) *dto.InstrumentResponse {
	return &dto.InstrumentResponse{
		ID:        i.ID,
		Symbol:    i.Symbol,
		Name:      i.Name,
		Sector:    i.Sector,
		Active:    i.Active,
		CreatedAt: i.CreatedAt,
	}
}
