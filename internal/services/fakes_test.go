package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"wanderplan/internal/models/db_models"
	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/utils"
)

type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string) (*utils.LLMResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	text := ""
	if len(f.responses) > 0 {
		text = f.responses[0]
		f.responses = f.responses[1:]
	}
	return &utils.LLMResponse{Text: text, Model: "gpt-4o-mini", PromptTokens: 1200, CompletionTokens: 800}, nil
}

func (f *fakeLLM) ModelName() string { return "gpt-4o-mini" }

type fakeItineraryRepo struct {
	records map[uuid.UUID]*db_models.Itinerary
	saves   []db_models.ItineraryStatus
	err     error
}

func newFakeItineraryRepo() *fakeItineraryRepo {
	return &fakeItineraryRepo{records: map[uuid.UUID]*db_models.Itinerary{}}
}

func (f *fakeItineraryRepo) Create(_ context.Context, it *db_models.Itinerary) error {
	if f.err != nil {
		return f.err
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.CreatedAt = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC).Unix()
	cp := *it
	f.records[it.ID] = &cp
	return nil
}

func (f *fakeItineraryRepo) Save(_ context.Context, it *db_models.Itinerary) error {
	if f.err != nil {
		return f.err
	}
	cp := *it
	f.records[it.ID] = &cp
	f.saves = append(f.saves, it.Status)
	return nil
}

func (f *fakeItineraryRepo) GetByID(_ context.Context, id uuid.UUID) (*db_models.Itinerary, error) {
	if r, ok := f.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, f.err
}

func (f *fakeItineraryRepo) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*db_models.Itinerary, error) {
	r, err := f.GetByID(ctx, id)
	if r == nil || r.OwnerID != ownerID {
		return nil, err
	}
	return r, nil
}

func (f *fakeItineraryRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, page, pageSize int) ([]db_models.Itinerary, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []db_models.Itinerary
	for _, r := range f.records {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	total := int64(len(out))
	from := (page - 1) * pageSize
	if from >= len(out) {
		return nil, total, nil
	}
	to := min(from+pageSize, len(out))
	return out[from:to], total, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []db_models.AIAuditLog
	count   int64
	err     error
	since   int64
	ops     []db_models.AIOperation
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *db_models.AIAuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) CountSuccessfulSince(_ context.Context, _ uuid.UUID, since int64, ops ...db_models.AIOperation) (int64, error) {
	f.since = since
	f.ops = ops
	return f.count, f.err
}

func (f *fakeAuditRepo) ListByItinerary(_ context.Context, id uuid.UUID) ([]db_models.AIAuditLog, error) {
	var out []db_models.AIAuditLog
	for _, e := range f.entries {
		if e.ItineraryID != nil && *e.ItineraryID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	sub *db_models.Subscription
	err error
}

func (f *fakeSubscriptionRepo) GetActiveSubscription(context.Context, uuid.UUID, int64) (*db_models.Subscription, error) {
	return f.sub, f.err
}

type fakeQuota struct {
	err   error
	calls int
}

func (f *fakeQuota) EnsureAvailable(context.Context, uuid.UUID) error {
	f.calls++
	return f.err
}

func (f *fakeQuota) Remaining(context.Context, uuid.UUID) (int, error) { return -1, f.err }

type fakeWeather struct {
	summaries []response_models.WeatherSummary
	calls     int
}

func (f *fakeWeather) Aggregate(context.Context, *response_models.NormalizedItinerary, *request_models.ItineraryRequest) []response_models.WeatherSummary {
	f.calls++
	return f.summaries
}
