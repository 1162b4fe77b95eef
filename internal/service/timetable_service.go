package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	"github.com/noah-isme/sma-adp-api/internal/ga"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/pkg/config"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/export"
)

type semesterScheduleRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, schedule *models.SemesterSchedule) error
}

type semesterScheduleSlotRepository interface {
	UpsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.SemesterScheduleSlot) error
}

// SaveTimetableRequest commits a previously generated or optimized proposal
// into a versioned semester schedule.
type SaveTimetableRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
	TermID     string `json:"termId" validate:"required"`
	ClassID    string `json:"classId" validate:"required"`
}

// TimetableService orchestrates the genetic-algorithm engine: running
// generate/optimize/analyze, caching proposals so a caller can commit one
// later, and persisting committed proposals as versioned semester schedules.
type TimetableService struct {
	engine       *ga.Engine
	cache        *CacheService
	scheduleRepo semesterScheduleRepository
	slotRepo     semesterScheduleSlotRepository
	db           *sqlx.DB
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          config.TimetableConfig
}

// NewTimetableService constructs a timetable service.
func NewTimetableService(
	cache *CacheService,
	scheduleRepo semesterScheduleRepository,
	slotRepo semesterScheduleSlotRepository,
	db *sqlx.DB,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		engine:       ga.NewEngine(),
		cache:        cache,
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		db:           db,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// generateParams fills any unset hyperparameter with the configured generate
// defaults before handing off to the engine.
func (s *TimetableService) generateParams(req dto.GenerateTimetableRequest) ga.GenerationParams {
	p := ga.GenerationParams{
		PopulationSize: req.PopulationSize,
		Generations:    req.Generations,
		MutationRate:   req.MutationRate,
		CrossoverRate:  req.CrossoverRate,
		EliteSize:      req.EliteSize,
		Workers:        s.cfg.Workers,
	}
	if p.PopulationSize <= 0 {
		p.PopulationSize = s.cfg.GeneratePopulationSize
	}
	if p.Generations <= 0 {
		p.Generations = s.cfg.GenerateGenerations
	}
	if p.MutationRate <= 0 {
		p.MutationRate = s.cfg.GenerateMutationRate
	}
	if p.CrossoverRate <= 0 {
		p.CrossoverRate = s.cfg.GenerateCrossoverRate
	}
	if p.EliteSize <= 0 {
		p.EliteSize = s.cfg.GenerateEliteSize
	}
	if s.cfg.GenerationBudget > 0 {
		p.GenerationBudget = s.cfg.GenerationBudget
	}
	return p
}

// optimizeParams builds the optimize hyperparameters from config alone (the
// optimize request carries none); crossover rate and elite size are left
// unset for the engine's own defaults.
func (s *TimetableService) optimizeParams() ga.GenerationParams {
	return ga.GenerationParams{
		PopulationSize:   s.cfg.OptimizePopulationSize,
		Generations:      s.cfg.OptimizeGenerations,
		MutationRate:     s.cfg.OptimizeMutationRate,
		Workers:          s.cfg.Workers,
		GenerationBudget: s.cfg.GenerationBudget,
	}
}

func (s *TimetableService) proposalTTL() time.Duration {
	if s.cfg.ProposalTTL > 0 {
		return s.cfg.ProposalTTL
	}
	return 30 * time.Minute
}

// Generate builds a new timetable from scratch and caches it under a fresh
// proposal id so it can later be committed with Save.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (string, dto.GeneratedTimetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", dto.GeneratedTimetable{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
	}

	in := ga.GenerateInput{
		Sections:     toGASections(req.Sections),
		Teachers:     toGATeachers(req.Teachers),
		Subjects:     toGASubjects(req.Subjects),
		Rooms:        toGARooms(req.Rooms),
		SchoolTiming: toGATiming(req.SchoolTiming),
		Breaks:       toGABreaks(req.BreakSchedules),
		Constraints:  toGAConstraints(req.Constraints),
		Params:       s.generateParams(req),
		Seed:         req.Seed,
	}

	result, err := s.engine.Generate(ctx, in)
	if err != nil {
		return "", dto.GeneratedTimetable{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to generate timetable")
	}

	timetable := toGeneratedTimetableDTO(result.Best, result.Stats, in.Params)

	proposalID := uuid.NewString()
	if err := s.cacheProposal(ctx, proposalID, timetable); err != nil {
		s.logger.Warn("failed to cache generated proposal", zap.String("proposal_id", proposalID), zap.Error(err))
	}

	return proposalID, timetable, nil
}

// Optimize re-scores an existing timetable as a baseline, evolves a fresh
// population, and caches the improved result.
func (s *TimetableService) Optimize(ctx context.Context, req dto.OptimizeTimetableRequest) (string, dto.OptimizeTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", dto.OptimizeTimetableResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimize request")
	}

	in := ga.OptimizeInput{
		Periods:      toGAPeriods(req.Periods),
		Sections:     toGASections(req.Sections),
		Teachers:     toGATeachers(req.Teachers),
		Subjects:     toGASubjects(req.Subjects),
		Rooms:        toGARooms(req.Rooms),
		SchoolTiming: toGATiming(req.SchoolTiming),
		Breaks:       toGABreaks(req.BreakSchedules),
		Constraints:  toGAConstraints(req.Constraints),
		Params:       s.optimizeParams(),
		Seed:         req.Seed,
	}

	result, err := s.engine.Optimize(ctx, in)
	if err != nil {
		return "", dto.OptimizeTimetableResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to optimize timetable")
	}

	initialScored := s.engine.Analyze(in.Periods, in.Constraints)
	timetable := toGeneratedTimetableDTO(result.Best, result.Stats, in.Params)

	response := dto.OptimizeTimetableResponse{
		OptimizedTimetable: timetable,
		Improvement: dto.ImprovementDTO{
			InitialFitness:   result.BaselineFitness,
			FinalFitness:     result.Best.Fitness,
			InitialConflicts: initialScored.Statistics.ConflictCount,
			FinalConflicts:   len(result.Best.Conflicts),
		},
	}

	proposalID := uuid.NewString()
	if err := s.cacheProposal(ctx, proposalID, timetable); err != nil {
		s.logger.Warn("failed to cache optimized proposal", zap.String("proposal_id", proposalID), zap.Error(err))
	}

	return proposalID, response, nil
}

// Analyze scores a submitted timetable without running any search.
func (s *TimetableService) Analyze(ctx context.Context, req dto.AnalyzeTimetableRequest) (dto.AnalyzeTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AnalyzeTimetableResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid analyze request")
	}

	periods := toGAPeriods(req.Periods)
	result := s.engine.Analyze(periods, toGAConstraints(req.Constraints))

	byType := make(map[string]int, len(result.ConflictsByType))
	for t, count := range result.ConflictsByType {
		byType[string(t)] = count
	}

	return dto.AnalyzeTimetableResponse{
		FitnessScore:         result.Fitness,
		DistributionScore:    result.DistributionScore,
		WorkloadBalanceScore: result.WorkloadBalanceScore,
		TotalConflicts:       len(result.Conflicts),
		ConflictsByType:      byType,
		Conflicts:            toConflictDTOs(result.Conflicts),
		Statistics:           toStatisticsDTO(result.Statistics),
	}, nil
}

// Save commits a cached proposal as a new version of the class/term's
// semester schedule, persisting its periods as schedule slots in one
// transaction.
func (s *TimetableService) Save(ctx context.Context, req SaveTimetableRequest) (*models.SemesterSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save request")
	}

	var timetable dto.GeneratedTimetable
	hit, err := s.cache.Get(ctx, proposalCacheKey(req.ProposalID), &timetable)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cached proposal")
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin save transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	schedule := &models.SemesterSchedule{TermID: req.TermID, ClassID: req.ClassID}
	if err = s.scheduleRepo.CreateVersioned(ctx, tx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester schedule")
	}

	slots := toSemesterScheduleSlots(schedule.ID, timetable.Periods)
	if err = s.slotRepo.UpsertBatch(ctx, tx, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule slots")
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit save transaction")
	}

	return schedule, nil
}

// ExportProposal loads a cached proposal and renders it as CSV or PDF bytes,
// along with a content type for the response.
func (s *TimetableService) ExportProposal(ctx context.Context, proposalID, format string) ([]byte, string, error) {
	var timetable dto.GeneratedTimetable
	hit, err := s.cache.Get(ctx, proposalCacheKey(proposalID), &timetable)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cached proposal")
	}
	if !hit {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}

	dataset := export.PeriodsToDataset(timetable.Periods)

	switch format {
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, "Timetable")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	case "csv", "":
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *TimetableService) cacheProposal(ctx context.Context, proposalID string, timetable dto.GeneratedTimetable) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, proposalCacheKey(proposalID), timetable, s.proposalTTL())
}

func proposalCacheKey(proposalID string) string {
	return fmt.Sprintf("timetable:proposal:%s", proposalID)
}
