package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/clock"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// memStore - общее in-memory состояние для подделок репозиториев.
type memStore struct {
	mu         sync.Mutex
	nextID     uint64
	stages     map[uint64]entities.Stage
	equipment  map[uint64]entities.Equipment
	requests   map[uint64]entities.MaintenanceRequest
	teams      map[uint64]entities.Team
	members    map[uint64]entities.TeamMember
	categories map[uint64]entities.EquipmentCategory
	counters   map[string]uint64
}

func newMemStore() *memStore {
	return &memStore{
		stages:     map[uint64]entities.Stage{},
		equipment:  map[uint64]entities.Equipment{},
		requests:   map[uint64]entities.MaintenanceRequest{},
		teams:      map[uint64]entities.Team{},
		members:    map[uint64]entities.TeamMember{},
		categories: map[uint64]entities.EquipmentCategory{},
		counters:   map[string]uint64{},
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

// withCategoryName повторяет подзапрос category_name. Вызывать под mu.
func (m *memStore) withCategoryName(e entities.Equipment) entities.Equipment {
	e.CategoryName = nil
	if e.CategoryID != nil {
		if c, ok := m.categories[*e.CategoryID]; ok {
			name := c.Name
			e.CategoryName = &name
		}
	}
	return e
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// --- стадии ---

type fakeStageRepo struct{ *memStore }

func (r fakeStageRepo) List(ctx context.Context) ([]entities.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.Stage, 0, len(r.stages))
	for _, s := range r.stages {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Sequence != list[j].Sequence {
			return list[i].Sequence < list[j].Sequence
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r fakeStageRepo) FindFirst(ctx context.Context, tx pgx.Tx) (*entities.Stage, error) {
	list, _ := r.List(ctx)
	if len(list) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &list[0], nil
}

func (r fakeStageRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stages[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r fakeStageRepo) Create(ctx context.Context, tx pgx.Tx, stage *entities.Stage) (*entities.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *stage
	created.ID = r.id()
	r.stages[created.ID] = created
	return &created, nil
}

func (r fakeStageRepo) Update(ctx context.Context, tx pgx.Tx, stage *entities.Stage) (*entities.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stages[stage.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	r.stages[stage.ID] = *stage
	updated := *stage
	return &updated, nil
}

func (r fakeStageRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stages, id)
	return nil
}

// --- оборудование ---

type fakeEquipmentRepo struct{ *memStore }

func (r fakeEquipmentRepo) List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.Equipment, 0, len(r.equipment))
	for _, e := range r.equipment {
		list = append(list, r.withCategoryName(e))
	}
	return list, uint64(len(list)), nil
}

func (r fakeEquipmentRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e = r.withCategoryName(e)
	return &e, nil
}

func (r fakeEquipmentRepo) Create(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *eq
	created.ID = r.id()
	r.equipment[created.ID] = created
	created = r.withCategoryName(created)
	return &created, nil
}

func (r fakeEquipmentRepo) Update(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.equipment[eq.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	r.equipment[eq.ID] = *eq
	updated := r.withCategoryName(*eq)
	return &updated, nil
}

func (r fakeEquipmentRepo) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.equipment[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = status
	r.equipment[id] = e
	return nil
}

func (r fakeEquipmentRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.EquipmentID == id {
			return apperrors.ErrConflict
		}
	}
	delete(r.equipment, id)
	return nil
}

// --- заявки ---

type fakeRequestRepo struct{ *memStore }

func (r fakeRequestRepo) List(ctx context.Context, filter types.Filter, now time.Time) ([]entities.MaintenanceRequest, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.MaintenanceRequest, 0, len(r.requests))
	for _, req := range r.requests {
		list = append(list, req)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, uint64(len(list)), nil
}

func (r fakeRequestRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &req, nil
}

func (r fakeRequestRepo) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	return r.FindByID(ctx, tx, id)
}

func (r fakeRequestRepo) Create(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.Reference == req.Reference {
			return nil, apperrors.ErrConflict
		}
	}
	created := *req
	created.ID = r.id()
	r.requests[created.ID] = created
	return &created, nil
}

func (r fakeRequestRepo) Update(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	r.requests[req.ID] = *req
	updated := *req
	return &updated, nil
}

func (r fakeRequestRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, id)
	return nil
}

func (r fakeRequestRepo) CountByStage(ctx context.Context, tx pgx.Tx, stageID uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n uint64
	for _, req := range r.requests {
		if req.StageID == stageID {
			n++
		}
	}
	return n, nil
}

func (r fakeRequestRepo) CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n uint64
	for _, req := range r.requests {
		stage := r.stages[req.StageID]
		if req.EquipmentID == equipmentID && !stage.IsTerminal() {
			n++
		}
	}
	return n, nil
}

func (r fakeRequestRepo) ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.MaintenanceRequest, 0)
	for _, req := range r.requests {
		if req.EquipmentID == equipmentID {
			list = append(list, req)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r fakeRequestRepo) CountOpenByTeam(ctx context.Context, teamID uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n uint64
	for _, req := range r.requests {
		stage := r.stages[req.StageID]
		if req.TeamID != nil && *req.TeamID == teamID && !stage.IsTerminal() {
			n++
		}
	}
	return n, nil
}

func (r fakeRequestRepo) ListScheduled(ctx context.Context, from, to *time.Time) ([]entities.ScheduledRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.ScheduledRequest, 0)
	for _, req := range r.requests {
		if req.ScheduledDate == nil {
			continue
		}
		if from != nil && req.ScheduledDate.Before(*from) {
			continue
		}
		if to != nil && req.ScheduledDate.After(*to) {
			continue
		}
		item := entities.ScheduledRequest{MaintenanceRequest: req}
		if e, ok := r.equipment[req.EquipmentID]; ok {
			name := e.Name
			item.EquipmentName = &name
		}
		if req.TeamID != nil {
			if t, ok := r.teams[*req.TeamID]; ok {
				name := t.Name
				item.TeamName = &name
			}
		}
		list = append(list, item)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ScheduledDate.Before(*list[j].ScheduledDate) })
	return list, nil
}

// --- команды ---

type fakeTeamRepo struct{ *memStore }

func (r fakeTeamRepo) List(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.Team, 0, len(r.teams))
	for _, t := range r.teams {
		list = append(list, t)
	}
	return list, uint64(len(list)), nil
}

func (r fakeTeamRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t.MemberCount = 0
	for _, m := range r.members {
		if m.TeamID == id {
			t.MemberCount++
		}
	}
	return &t, nil
}

func (r fakeTeamRepo) Create(ctx context.Context, tx pgx.Tx, team *entities.Team) (*entities.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if strings.EqualFold(t.Name, team.Name) {
			return nil, apperrors.ErrConflict
		}
	}
	created := *team
	created.ID = r.id()
	r.teams[created.ID] = created
	return &created, nil
}

func (r fakeTeamRepo) Update(ctx context.Context, tx pgx.Tx, team *entities.Team) (*entities.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[team.ID] = *team
	updated := *team
	return &updated, nil
}

func (r fakeTeamRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.teams, id)
	for memberID, m := range r.members {
		if m.TeamID == id {
			delete(r.members, memberID)
		}
	}
	return nil
}

// --- участники команд ---

type fakeTeamMemberRepo struct{ *memStore }

func (r fakeTeamMemberRepo) ListByTeam(ctx context.Context, tx pgx.Tx, teamID uint64) ([]entities.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.TeamMember, 0)
	for _, m := range r.members {
		if m.TeamID == teamID {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r fakeTeamMemberRepo) FindByID(ctx context.Context, tx pgx.Tx, teamID, id uint64) (*entities.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.TeamID != teamID {
		return nil, apperrors.ErrNotFound
	}
	return &m, nil
}

func (r fakeTeamMemberRepo) Create(ctx context.Context, tx pgx.Tx, member *entities.TeamMember) (*entities.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[member.TeamID]; !ok {
		return nil, apperrors.ErrConflict
	}
	created := *member
	created.ID = r.id()
	r.members[created.ID] = created
	return &created, nil
}

func (r fakeTeamMemberRepo) Update(ctx context.Context, tx pgx.Tx, member *entities.TeamMember) (*entities.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.members[member.ID]; !ok || existing.TeamID != member.TeamID {
		return nil, apperrors.ErrNotFound
	}
	r.members[member.ID] = *member
	updated := *member
	return &updated, nil
}

func (r fakeTeamMemberRepo) Delete(ctx context.Context, tx pgx.Tx, teamID, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; !ok || m.TeamID != teamID {
		return apperrors.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

// --- категории ---

type fakeCategoryRepo struct{ *memStore }

func (r fakeCategoryRepo) withCount(c entities.EquipmentCategory) entities.EquipmentCategory {
	c.EquipmentCount = 0
	for _, e := range r.equipment {
		if e.CategoryID != nil && *e.CategoryID == c.ID {
			c.EquipmentCount++
		}
	}
	return c
}

func (r fakeCategoryRepo) List(ctx context.Context) ([]entities.EquipmentCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.EquipmentCategory, 0, len(r.categories))
	for _, c := range r.categories {
		list = append(list, r.withCount(c))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r fakeCategoryRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c = r.withCount(c)
	return &c, nil
}

func (r fakeCategoryRepo) Create(ctx context.Context, tx pgx.Tx, category *entities.EquipmentCategory) (*entities.EquipmentCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == category.Name {
			return nil, apperrors.ErrConflict
		}
	}
	created := *category
	created.ID = r.id()
	r.categories[created.ID] = created
	return &created, nil
}

func (r fakeCategoryRepo) Update(ctx context.Context, tx pgx.Tx, category *entities.EquipmentCategory) (*entities.EquipmentCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = *category
	updated := r.withCount(*category)
	return &updated, nil
}

func (r fakeCategoryRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.categories, id)
	for eqID, e := range r.equipment {
		if e.CategoryID != nil && *e.CategoryID == id {
			e.CategoryID = nil
			r.equipment[eqID] = e
		}
	}
	return nil
}

// --- счётчики ---

type fakeSequenceRepo struct{ *memStore }

func (r fakeSequenceRepo) Next(ctx context.Context, tx pgx.Tx, name string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name]++
	return r.counters[name], nil
}

// --- журнал ---

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []entities.ActivityLog
	err     error
}

func (r *fakeActivityRepo) Create(ctx context.Context, entry *entities.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	entry.ID = uint64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) List(ctx context.Context, filter types.Filter) ([]entities.ActivityLog, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.ActivityLog(nil), r.entries...), uint64(len(r.entries)), nil
}

func (r *fakeActivityRepo) last() entities.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}

// --- кеш ---

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

// --- окружение ---

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store      *memStore
	clock      *clock.FakeClock
	activity   *fakeActivityRepo
	cache      *fakeCache
	bus        *eventbus.Bus
	requests   RequestServiceInterface
	equipment  EquipmentServiceInterface
	stages     StageServiceInterface
	teams      TeamServiceInterface
	categories CategoryServiceInterface

	stageNew, stageProgress, stageDone, stageScrap entities.Stage
	pump                                           entities.Equipment
	team                                           entities.Team
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:    store,
		clock:    clock.Fake(testNow),
		activity: &fakeActivityRepo{},
		cache:    newFakeCache(),
		bus:      eventbus.New(zap.NewNop()),
	}
	logger := zap.NewNop()
	audit := NewActivityLogService(env.activity, logger)

	env.requests = NewRequestService(
		fakeTxManager{}, fakeRequestRepo{store}, fakeStageRepo{store}, fakeEquipmentRepo{store},
		fakeTeamRepo{store}, fakeSequenceRepo{store}, audit, env.bus, env.clock, logger,
	)
	env.equipment = NewEquipmentService(
		fakeTxManager{}, fakeEquipmentRepo{store}, fakeCategoryRepo{store}, fakeRequestRepo{store}, fakeStageRepo{store},
		fakeSequenceRepo{store}, env.cache, audit, env.clock, logger, time.Minute,
	)
	env.stages = NewStageService(fakeTxManager{}, fakeStageRepo{store}, fakeRequestRepo{store}, audit, logger)
	env.teams = NewTeamService(fakeTxManager{}, fakeTeamRepo{store}, fakeTeamMemberRepo{store}, fakeRequestRepo{store}, audit, logger)
	env.categories = NewCategoryService(fakeTxManager{}, fakeCategoryRepo{store}, audit, logger)

	env.stageProgress = env.addStage(entities.Stage{Name: "In Progress", Sequence: 20})
	env.stageNew = env.addStage(entities.Stage{Name: "New", Sequence: 10})
	env.stageDone = env.addStage(entities.Stage{Name: "Repaired", Sequence: 30, IsDone: true})
	env.stageScrap = env.addStage(entities.Stage{Name: "Scrap", Sequence: 40, IsScrap: true})

	env.team = env.addTeam(entities.Team{Name: "Mechanics", IsActive: true})
	techID := uint64(77)
	env.pump = env.addEquipment(entities.Equipment{
		Code:                "EQ-0100",
		Name:                "Hydraulic Pump",
		Status:              entities.EquipmentOperational,
		DefaultTeamID:       &env.team.ID,
		DefaultTechnicianID: &techID,
	})
	return env
}

func (e *testEnv) addStage(s entities.Stage) entities.Stage {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	s.ID = e.store.id()
	e.store.stages[s.ID] = s
	return s
}

func (e *testEnv) addTeam(t entities.Team) entities.Team {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	t.ID = e.store.id()
	e.store.teams[t.ID] = t
	return t
}

func (e *testEnv) addEquipment(eq entities.Equipment) entities.Equipment {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	eq.ID = e.store.id()
	e.store.equipment[eq.ID] = eq
	return eq
}

func (e *testEnv) addCategory(c entities.EquipmentCategory) entities.EquipmentCategory {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	c.ID = e.store.id()
	e.store.categories[c.ID] = c
	return c
}

func (e *testEnv) storedRequest(id uint64) entities.MaintenanceRequest {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.requests[id]
}

func (e *testEnv) storedEquipment(id uint64) entities.Equipment {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.equipment[id]
}

// --- субъекты ---

func principalWith(email string, capabilities ...string) *authz.Principal {
	roleID := uint64(1)
	p := &authz.Principal{
		UserID:      10,
		Email:       email,
		FullName:    "Test User",
		RoleID:      &roleID,
		Permissions: map[string]bool{},
	}
	for _, c := range capabilities {
		p.Permissions[c] = true
	}
	return p
}

func adminPrincipal() *authz.Principal {
	return principalWith("admin@plant.io", authz.AllCapabilities...)
}

var errBoom = errors.New("boom")
