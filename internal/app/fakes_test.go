package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"talentx/internal/common"
	"talentx/internal/domain/job"
	"talentx/internal/domain/user"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[common.UUID]*user.User
	byEmail map[string]*user.User
	order   []common.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[common.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := r.byEmail[email]; ok {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	}
	u.ID = common.NewUUID()
	u.Email = email
	copy := u
	r.byID[u.ID] = &copy
	r.byEmail[email] = &copy
	r.order = append(r.order, u.ID)
	return &u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copy := *account
	return &copy, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copy := *account
	return &copy, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []user.User
	for _, id := range r.order {
		if account := r.byID[id]; account.Role == role {
			items = append(items, *account)
		}
	}
	return items, nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[common.UUID]*job.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[common.UUID]*job.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = common.NewUUID()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	j.UpdatedAt = j.CreatedAt
	copy := j
	r.jobs[j.ID] = &copy
	return &j, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.jobs[j.ID]
	if current == nil || current.PostedBy != j.PostedBy {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	copy := j
	r.jobs[j.ID] = &copy
	return &j, nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, id, postedBy common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.jobs[id]
	if current == nil || current.PostedBy != postedBy {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.jobs[id]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	copy := *current
	return &copy, nil
}

func (r *fakeJobRepo) Search(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]job.Job, 0)
	for _, j := range r.jobs {
		if j.Status != job.StatusActive {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(filter.Query)) {
			continue
		}
		items = append(items, *j)
	}
	sort.Slice(items, func(i, k int) bool { return items[i].CreatedAt.After(items[k].CreatedAt) })
	if filter.Offset >= len(items) {
		return []job.Job{}, nil
	}
	items = items[filter.Offset:]
	if len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r *fakeJobRepo) CountActive(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, j := range r.jobs {
		if j.Status == job.StatusActive {
			total++
		}
	}
	return total, nil
}
