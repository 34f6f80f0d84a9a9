package qualification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the store contract for qualifications and profiles.
type Repository interface {
	// SaveQualification upserts by subject: the latest read path always sees
	// the most recent assessment, superseding (not merging) earlier ones.
	SaveQualification(ctx context.Context, result *QualificationResult) error
	GetLatestQualification(ctx context.Context, subjectID string) (*QualificationResult, error)
	ListQualified(ctx context.Context, limit int) ([]*QualificationResult, error)
	GetUserProfile(ctx context.Context, subjectID string) (*SubjectProfile, error)
}

// InMemoryRepository is a map-backed Repository for tests and local runs.
type InMemoryRepository struct {
	mu             sync.RWMutex
	qualifications map[string]*QualificationResult
	profiles       map[string]*SubjectProfile
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		qualifications: make(map[string]*QualificationResult),
		profiles:       make(map[string]*SubjectProfile),
	}
}

// SaveQualification replaces any prior result for the subject.
func (r *InMemoryRepository) SaveQualification(ctx context.Context, result *QualificationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *result
	stored.CreatedAt = time.Now().UTC()
	result.CreatedAt = stored.CreatedAt
	r.qualifications[result.SubjectID] = &stored
	return nil
}

// GetLatestQualification returns the current result for the subject.
func (r *InMemoryRepository) GetLatestQualification(ctx context.Context, subjectID string) (*QualificationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.qualifications[subjectID]
	if !ok {
		return nil, ErrQualificationNotFound
	}
	copied := *result
	return &copied, nil
}

// ListQualified returns qualified results ordered by urgency, confidence,
// then recency.
func (r *InMemoryRepository) ListQualified(ctx context.Context, limit int) ([]*QualificationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*QualificationResult
	for _, result := range r.qualifications {
		if result.Qualified {
			copied := *result
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UrgencyScore != out[j].UrgencyScore {
			return out[i].UrgencyScore > out[j].UrgencyScore
		}
		if out[i].ConfidenceScore != out[j].ConfidenceScore {
			return out[i].ConfidenceScore > out[j].ConfidenceScore
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetUserProfile returns the stored contact details for a subject.
func (r *InMemoryRepository) GetUserProfile(ctx context.Context, subjectID string) (*SubjectProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[subjectID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

// PutProfile stores a profile. Test helper for local runs.
func (r *InMemoryRepository) PutProfile(profile *SubjectProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.profiles[profile.SubjectID] = &copied
}
