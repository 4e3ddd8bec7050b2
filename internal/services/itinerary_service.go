package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"wanderplan/internal/models/db_models"
	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/internal/repositories"
	"wanderplan/pkg/jsonrepair"
	"wanderplan/pkg/utils"
)

const maxPageSize = 100

type ItineraryServiceInterface interface {
	Generate(ctx context.Context, ownerID uuid.UUID, req request_models.ItineraryRequest) (*response_models.ItineraryResponse, error)
	RegenerateDay(ctx context.Context, ownerID, itineraryID uuid.UUID, day int, req request_models.RegenerateDayRequest) (*response_models.ItineraryResponse, error)
	GetByID(ctx context.Context, ownerID, itineraryID uuid.UUID) (*response_models.ItineraryResponse, error)
	List(ctx context.Context, ownerID uuid.UUID, page, pageSize int) (*response_models.ItineraryListResponse, error)
}

type ItineraryService struct {
	repo       repositories.ItineraryRepository
	auditRepo  repositories.AIAuditRepository
	quota      QuotaServiceInterface
	llm        utils.LLMClientInterface
	weather    WeatherServiceInterface
	llmTimeout time.Duration
	now        func() time.Time
}

func NewItineraryService(
	repo repositories.ItineraryRepository,
	auditRepo repositories.AIAuditRepository,
	quota QuotaServiceInterface,
	llm utils.LLMClientInterface,
	weather WeatherServiceInterface,
	llmTimeout time.Duration,
) ItineraryServiceInterface {
	if llmTimeout <= 0 {
		llmTimeout = 90 * time.Second
	}
	return &ItineraryService{
		repo:       repo,
		auditRepo:  auditRepo,
		quota:      quota,
		llm:        llm,
		weather:    weather,
		llmTimeout: llmTimeout,
		now:        time.Now,
	}
}

// invocation is one model call and everything the audit log needs about it.
type invocation struct {
	prompt   string
	response *utils.LLMResponse
	recovery *jsonrepair.Result
	latency  time.Duration
	err      error
}

func (s *ItineraryService) Generate(ctx context.Context, ownerID uuid.UUID, req request_models.ItineraryRequest) (*response_models.ItineraryResponse, error) {
	prompt, err := BuildItineraryPrompt(&req)
	if err != nil {
		return nil, err
	}
	if err := s.quota.EnsureAvailable(ctx, ownerID); err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	record := &db_models.Itinerary{
		OwnerID:      ownerID,
		Status:       db_models.ItineraryStatusGenerating,
		Title:        itineraryTitle(&req),
		Origin:       strings.TrimSpace(req.Origin),
		Destinations: trimAll(req.Destinations),
		StartDate:    strings.TrimSpace(req.StartDate),
		EndDate:      strings.TrimSpace(req.EndDate),
		DurationDays: req.Duration(),
		Currency:     req.ResolvedCurrency().Code,
		Request:      datatypes.JSON(snapshot),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	log.Printf("itinerary %s: generating %d days for %v", record.ID, record.DurationDays, req.Destinations)

	call := s.invoke(ctx, prompt)
	var result *PipelineResult
	if call.err == nil {
		result, call.err = ProcessModelResponse(call.response.Text, &req)
		if result != nil {
			call.recovery = result.Recovery
		}
	}
	if call.err != nil {
		s.audit(ctx, ownerID, &record.ID, db_models.AIOperationGenerate, call)
		return nil, s.fail(ctx, record, call.err)
	}

	it := result.Itinerary
	it.WeatherForecast = s.weather.Aggregate(ctx, it, &req)

	body, err := json.Marshal(it)
	if err != nil {
		return nil, s.fail(ctx, record, err)
	}
	record.Body = datatypes.JSON(body)
	record.Status = db_models.ItineraryStatusCompleted
	record.ErrorMessage = ""
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	s.audit(ctx, ownerID, &record.ID, db_models.AIOperationGenerate, call)
	log.Printf("itinerary %s: completed, total %.2f %s", record.ID, it.TotalEstimatedCost, it.Currency)

	return toItineraryResponse(record, it), nil
}

func (s *ItineraryService) RegenerateDay(ctx context.Context, ownerID, itineraryID uuid.UUID, day int, in request_models.RegenerateDayRequest) (*response_models.ItineraryResponse, error) {
	record, err := s.repo.GetByIDForOwner(ctx, itineraryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if record == nil {
		return nil, utils.ErrItineraryNotFound
	}
	switch record.Status {
	case db_models.ItineraryStatusGenerating:
		return nil, utils.ErrItineraryBusy
	case db_models.ItineraryStatusFailed:
		return nil, fmt.Errorf("%w: itinerary generation failed, generate it again", utils.ErrInvalidInput)
	}

	var req request_models.ItineraryRequest
	if err := json.Unmarshal(record.Request, &req); err != nil {
		return nil, fmt.Errorf("%w: stored request: %v", utils.ErrDatabaseError, err)
	}
	var current response_models.NormalizedItinerary
	if err := json.Unmarshal(record.Body, &current); err != nil {
		return nil, fmt.Errorf("%w: stored itinerary: %v", utils.ErrDatabaseError, err)
	}
	if day < 1 || day > len(current.DayPlans) {
		return nil, utils.ErrDayNotFound
	}

	prompt, err := BuildDayRegenerationPrompt(&req, day, in.Instructions)
	if err != nil {
		return nil, err
	}
	if err := s.quota.EnsureAvailable(ctx, ownerID); err != nil {
		return nil, err
	}

	scoped := ScopeToDay(&req, day)
	call := s.invoke(ctx, prompt)
	var result *PipelineResult
	if call.err == nil {
		result, call.err = ProcessModelResponse(call.response.Text, &scoped)
		if result != nil {
			call.recovery = result.Recovery
		}
	}
	s.audit(ctx, ownerID, &record.ID, db_models.AIOperationRegenerateDay, call)
	if call.err != nil {
		// the stored itinerary stays as it was
		log.Printf("itinerary %s: regenerating day %d failed: %v", record.ID, day, call.err)
		return nil, classifyPipelineError(call.err)
	}

	SpliceDay(&current, result.Itinerary, day)
	ReconcileCosts(&current)

	body, err := json.Marshal(&current)
	if err != nil {
		return nil, err
	}
	editedAt := s.now().Unix()
	record.Body = datatypes.JSON(body)
	record.Status = db_models.ItineraryStatusEdited
	record.EditedAt = &editedAt
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	log.Printf("itinerary %s: day %d regenerated", record.ID, day)

	return toItineraryResponse(record, &current), nil
}

func (s *ItineraryService) GetByID(ctx context.Context, ownerID, itineraryID uuid.UUID) (*response_models.ItineraryResponse, error) {
	record, err := s.repo.GetByIDForOwner(ctx, itineraryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if record == nil {
		return nil, utils.ErrItineraryNotFound
	}

	var body *response_models.NormalizedItinerary
	if len(record.Body) > 0 && string(record.Body) != "null" {
		body = &response_models.NormalizedItinerary{}
		if err := json.Unmarshal(record.Body, body); err != nil {
			return nil, fmt.Errorf("%w: stored itinerary: %v", utils.ErrDatabaseError, err)
		}
	}
	return toItineraryResponse(record, body), nil
}

func (s *ItineraryService) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int) (*response_models.ItineraryListResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	records, total, err := s.repo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	items := make([]response_models.ItinerarySummaryResponse, 0, len(records))
	for _, r := range records {
		items = append(items, response_models.ItinerarySummaryResponse{
			ID:           r.ID.String(),
			Title:        r.Title,
			Status:       string(r.Status),
			Destinations: r.Destinations,
			DurationDays: r.DurationDays,
			CreatedAt:    utils.FormatUnixSeconds(r.CreatedAt),
		})
	}
	return &response_models.ItineraryListResponse{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// invoke calls the model under the configured timeout. It never retries.
func (s *ItineraryService) invoke(ctx context.Context, prompt string) *invocation {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	started := s.now()
	resp, err := s.llm.GenerateJSON(callCtx, prompt)
	call := &invocation{prompt: prompt, response: resp, latency: s.now().Sub(started)}
	if err != nil {
		call.err = fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	return call
}

// fail marks the record failed and returns the error for the caller.
func (s *ItineraryService) fail(ctx context.Context, record *db_models.Itinerary, cause error) error {
	record.Status = db_models.ItineraryStatusFailed
	record.ErrorMessage = cause.Error()
	if err := s.repo.Save(ctx, record); err != nil {
		log.Printf("itinerary %s: could not mark failed: %v", record.ID, err)
	}
	log.Printf("itinerary %s: generation failed: %v", record.ID, cause)
	return classifyPipelineError(cause)
}

func (s *ItineraryService) audit(ctx context.Context, ownerID uuid.UUID, itineraryID *uuid.UUID, op db_models.AIOperation, call *invocation) {
	entry := &db_models.AIAuditLog{
		OwnerID:     ownerID,
		ItineraryID: itineraryID,
		Operation:   op,
		Model:       s.llm.ModelName(),
		Prompt:      call.prompt,
		Status:      db_models.AIAuditSuccess,
		LatencyMs:   call.latency.Milliseconds(),
	}
	if call.response != nil {
		if call.response.Model != "" {
			entry.Model = call.response.Model
		}
		entry.RawResponse = call.response.Text
		entry.PromptTokens = call.response.PromptTokens
		entry.CompletionTokens = call.response.CompletionTokens
		entry.TotalTokens = call.response.TotalTokens()
		entry.CostUSD = utils.EstimateCostUSD(entry.Model, entry.PromptTokens, entry.CompletionTokens)
	}
	if call.recovery != nil {
		entry.RecoveryStrategy = string(call.recovery.Strategy)
		entry.Repaired = call.recovery.Repaired
		entry.RepairedText = call.recovery.RepairedText
		if parsed, err := json.Marshal(call.recovery.Value); err == nil {
			entry.ParsedResponse = datatypes.JSON(parsed)
		}
	}
	if call.err != nil {
		entry.Status = db_models.AIAuditFailed
		entry.ErrorMessage = call.err.Error()
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("audit log write failed: %v", err)
	}
}

// classifyPipelineError keeps pipeline sentinels visible to errors.Is and
// wraps anything else as a model failure.
func classifyPipelineError(err error) error {
	switch {
	case errors.Is(err, utils.ErrRecoveryFailed),
		errors.Is(err, utils.ErrValidation),
		errors.Is(err, utils.ErrUnexpectedBehaviorOfAI):
		return err
	default:
		return fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}
}

// SpliceDay replaces day `day` of it with the single day of regenerated, and
// swaps the matching daily cost entries. When only the regenerated day carries
// a cost breakdown, the other days get entries built from their day totals.
func SpliceDay(it, regenerated *response_models.NormalizedItinerary, day int) {
	if len(regenerated.DayPlans) == 0 {
		return
	}
	plan := regenerated.DayPlans[0]
	plan.Day = day

	// a regenerated breakdown entry alone would become the whole trip's breakdown
	existing := it.DailyCostBreakdown
	if len(existing) == 0 && len(regenerated.DailyCostBreakdown) > 0 {
		existing = make([]response_models.DailyCost, 0, len(it.DayPlans))
		for _, p := range it.DayPlans {
			existing = append(existing, response_models.DailyCost{Day: p.Day, Total: p.TotalCost})
		}
	}

	for i := range it.DayPlans {
		if it.DayPlans[i].Day == day {
			if plan.Date == "" {
				plan.Date = it.DayPlans[i].Date
			}
			it.DayPlans[i] = plan
			break
		}
	}

	costs := make([]response_models.DailyCost, 0, len(existing)+1)
	for _, c := range existing {
		if c.Day != day {
			costs = append(costs, c)
		}
	}
	if len(regenerated.DailyCostBreakdown) > 0 {
		entry := regenerated.DailyCostBreakdown[0]
		entry.Day = day
		costs = append(costs, entry)
	} else if len(existing) > 0 {
		costs = append(costs, response_models.DailyCost{Day: day, Total: plan.TotalCost})
	}
	sort.SliceStable(costs, func(i, j int) bool { return costs[i].Day < costs[j].Day })
	it.DailyCostBreakdown = costs
}

func itineraryTitle(req *request_models.ItineraryRequest) string {
	return fmt.Sprintf("%d days in %s", req.Duration(), strings.Join(trimAll(req.Destinations), " & "))
}

func toItineraryResponse(record *db_models.Itinerary, body *response_models.NormalizedItinerary) *response_models.ItineraryResponse {
	resp := &response_models.ItineraryResponse{
		ID:           record.ID.String(),
		Status:       string(record.Status),
		Title:        record.Title,
		Origin:       record.Origin,
		Destinations: record.Destinations,
		StartDate:    record.StartDate,
		EndDate:      record.EndDate,
		DurationDays: record.DurationDays,
		Itinerary:    body,
		ErrorMessage: record.ErrorMessage,
		CreatedAt:    utils.FormatUnixSeconds(record.CreatedAt),
	}
	if record.EditedAt != nil {
		resp.EditedAt = utils.FormatUnixSeconds(*record.EditedAt)
	}
	return resp
}
