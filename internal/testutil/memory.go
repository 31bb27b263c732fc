// Package testutil provides an in-memory implementation of every repository
// interface so services and handlers can be exercised without PostgreSQL.
package testutil

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/app/repositories"
)

type enrollmentKey struct {
	studentID int64
	sectionID int64
}

// Store holds every table behind one mutex
type Store struct {
	mu sync.Mutex

	nextID      map[string]int64
	roles       map[int64]models.Role
	users       map[int64]models.User
	students    map[int64]models.Student
	sections    map[int64]models.Section
	enrollments map[enrollmentKey]models.Enrollment

	// Now stamps created_at and updated_at
	Now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nextID:      map[string]int64{},
		roles:       map[int64]models.Role{},
		users:       map[int64]models.User{},
		students:    map[int64]models.Student{},
		sections:    map[int64]models.Section{},
		enrollments: map[enrollmentKey]models.Enrollment{},
		Now:         time.Now,
	}
}

// NewRepositories returns repositories backed by a fresh store
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Roles:       &RoleRepository{s},
		Users:       &UserRepository{s},
		Students:    &StudentRepository{s},
		Sections:    &SectionRepository{s},
		Enrollments: &EnrollmentRepository{s},
	}
}

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *Store) stamp() models.Timestamps {
	now := s.Now().UTC()
	return models.Timestamps{CreatedAt: now, UpdatedAt: now}
}

func (s *Store) sectionCount(sectionID int64) int {
	n := 0
	for k := range s.enrollments {
		if k.sectionID == sectionID {
			n++
		}
	}
	return n
}

func containsFold(field, query string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(query))
}

// page sorts items by a whitelisted key with an ascending id tie-breaker,
// then applies offset and limit
func page[T any](items []*T, params repositories.ListParams, keys map[string]func(a, b *T) int, id func(*T) int64) []*T {
	byID := func(a, b *T) int { return cmp.Compare(id(a), id(b)) }
	primary, ok := keys[params.SortBy]
	if !ok {
		primary = byID
	}
	slices.SortStableFunc(items, func(a, b *T) int {
		c := primary(a, b)
		if params.Order == repositories.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return byID(a, b)
	})

	if params.Offset >= len(items) {
		return []*T{}
	}
	items = items[params.Offset:]
	if params.Limit > 0 && params.Limit < len(items) {
		items = items[:params.Limit]
	}
	return items
}

// RoleRepository is the in-memory roles table
type RoleRepository struct{ s *Store }

var roleKeys = map[string]func(a, b *models.Role) int{
	"name":       func(a, b *models.Role) int { return cmp.Compare(a.Name, b.Name) },
	"created_at": func(a, b *models.Role) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (r *RoleRepository) GetByID(_ context.Context, id int64) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &role, nil
}

func (r *RoleRepository) GetByName(_ context.Context, name models.RoleName) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range r.s.roles {
		if role.Name == name {
			return &role, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *RoleRepository) List(_ context.Context, params repositories.ListParams) ([]*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]*models.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		items = append(items, &role)
	}
	return page(items, params, roleKeys, func(x *models.Role) int64 { return x.ID }), nil
}

func (r *RoleRepository) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.roles)), nil
}

func (r *RoleRepository) Create(_ context.Context, in models.RoleCreate) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range r.s.roles {
		if role.Name == in.Name {
			return nil, repositories.ErrAlreadyExists
		}
	}
	role := models.Role{ID: r.s.id("roles"), Name: in.Name, Description: in.Description, Timestamps: r.s.stamp()}
	r.s.roles[role.ID] = role
	return &role, nil
}

func (r *RoleRepository) Update(_ context.Context, id int64, in models.RoleUpdate) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if in.Name != nil {
		for _, other := range r.s.roles {
			if other.ID != id && other.Name == *in.Name {
				return nil, repositories.ErrAlreadyExists
			}
		}
		role.Name = *in.Name
	}
	if in.Description != nil {
		role.Description = in.Description
	}
	role.UpdatedAt = r.s.Now().UTC()
	r.s.roles[id] = role
	return &role, nil
}

func (r *RoleRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.RoleID == id {
			return repositories.ErrRoleInUse
		}
	}
	delete(r.s.roles, id)
	return nil
}

// UserRepository is the in-memory users table; loaded users carry their role
type UserRepository struct{ s *Store }

var userKeys = map[string]func(a, b *models.User) int{
	"email":      func(a, b *models.User) int { return cmp.Compare(a.Email, b.Email) },
	"full_name":  func(a, b *models.User) int { return cmp.Compare(a.FullName, b.FullName) },
	"created_at": func(a, b *models.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (r *UserRepository) withRole(u models.User) *models.User {
	u.Role = r.s.roles[u.RoleID]
	return &u
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.withRole(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return r.withRole(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepository) CountByRole(_ context.Context, roleID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) List(_ context.Context, params repositories.ListParams) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		items = append(items, r.withRole(u))
	}
	return page(items, params, userKeys, func(x *models.User) int64 { return x.ID }), nil
}

func (r *UserRepository) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *UserRepository) Create(_ context.Context, in models.UserCreate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == in.Email {
			return nil, repositories.ErrAlreadyExists
		}
	}
	if _, ok := r.s.roles[in.RoleID]; !ok {
		return nil, repositories.ErrInvalidReference
	}
	u := models.User{
		ID:             r.s.id("users"),
		Email:          in.Email,
		HashedPassword: in.HashedPassword,
		FullName:       in.FullName,
		IsActive:       in.IsActive,
		RoleID:         in.RoleID,
		Timestamps:     r.s.stamp(),
	}
	r.s.users[u.ID] = u
	return r.withRole(u), nil
}

func (r *UserRepository) Update(_ context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if in.Email != nil {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *in.Email {
				return nil, repositories.ErrAlreadyExists
			}
		}
		u.Email = *in.Email
	}
	if in.RoleID != nil {
		if _, ok := r.s.roles[*in.RoleID]; !ok {
			return nil, repositories.ErrInvalidReference
		}
		u.RoleID = *in.RoleID
	}
	if in.HashedPassword != nil {
		u.HashedPassword = *in.HashedPassword
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	u.UpdatedAt = r.s.Now().UTC()
	r.s.users[id] = u
	return r.withRole(u), nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// StudentRepository is the in-memory students table
type StudentRepository struct{ s *Store }

var studentKeys = map[string]func(a, b *models.Student) int{
	"first_name":    func(a, b *models.Student) int { return cmp.Compare(a.FirstName, b.FirstName) },
	"last_name":     func(a, b *models.Student) int { return cmp.Compare(a.LastName, b.LastName) },
	"email":         func(a, b *models.Student) int { return cmp.Compare(a.Email, b.Email) },
	"date_of_birth": func(a, b *models.Student) int { return a.DateOfBirth.Compare(b.DateOfBirth) },
	"created_at":    func(a, b *models.Student) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updated_at":    func(a, b *models.Student) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

func studentID(x *models.Student) int64 { return x.ID }

func (r *StudentRepository) filter(keep func(models.Student) bool) []*models.Student {
	items := []*models.Student{}
	for _, st := range r.s.students {
		if keep(st) {
			items = append(items, &st)
		}
	}
	return items
}

func matchesStudent(query string) func(models.Student) bool {
	return func(st models.Student) bool {
		return containsFold(st.FirstName, query) || containsFold(st.LastName, query) || containsFold(st.Email, query)
	}
}

func (r *StudentRepository) enrolledIn(sectionID int64) func(models.Student) bool {
	return func(st models.Student) bool {
		_, ok := r.s.enrollments[enrollmentKey{st.ID, sectionID}]
		return ok
	}
}

func all[T any](T) bool { return true }

func (r *StudentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &st, nil
}

func (r *StudentRepository) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.students {
		if st.Email == email {
			return &st, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *StudentRepository) List(_ context.Context, params repositories.ListParams) ([]*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(all[models.Student]), params, studentKeys, studentID), nil
}

func (r *StudentRepository) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.students)), nil
}

func (r *StudentRepository) Search(_ context.Context, query string, params repositories.ListParams) ([]*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(matchesStudent(query)), params, studentKeys, studentID), nil
}

func (r *StudentRepository) CountSearch(_ context.Context, query string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(matchesStudent(query)))), nil
}

func (r *StudentRepository) ListBySection(_ context.Context, sectionID int64, params repositories.ListParams) ([]*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(r.enrolledIn(sectionID)), params, studentKeys, studentID), nil
}

func (r *StudentRepository) CountBySection(_ context.Context, sectionID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(r.s.sectionCount(sectionID)), nil
}

func (r *StudentRepository) Enrollments(_ context.Context, studentID int64) ([]models.StudentEnrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.StudentEnrollment{}
	for k, e := range r.s.enrollments {
		if k.studentID == studentID {
			out = append(out, models.StudentEnrollment{
				SectionID:      k.sectionID,
				SectionName:    r.s.sections[k.sectionID].Name,
				EnrollmentDate: e.EnrollmentDate,
			})
		}
	}
	slices.SortFunc(out, func(a, b models.StudentEnrollment) int {
		if c := a.EnrollmentDate.Compare(b.EnrollmentDate); c != 0 {
			return c
		}
		return cmp.Compare(a.SectionID, b.SectionID)
	})
	return out, nil
}

func (r *StudentRepository) Create(_ context.Context, in models.StudentCreate) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.students {
		if st.Email == in.Email {
			return nil, repositories.ErrAlreadyExists
		}
	}
	st := models.Student{
		ID:          r.s.id("students"),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
		Timestamps:  r.s.stamp(),
	}
	r.s.students[st.ID] = st
	return &st, nil
}

func (r *StudentRepository) Update(_ context.Context, id int64, in models.StudentUpdate) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if in.Email != nil {
		for _, other := range r.s.students {
			if other.ID != id && other.Email == *in.Email {
				return nil, repositories.ErrAlreadyExists
			}
		}
		st.Email = *in.Email
	}
	if in.FirstName != nil {
		st.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		st.LastName = *in.LastName
	}
	if in.DateOfBirth != nil {
		st.DateOfBirth = *in.DateOfBirth
	}
	st.UpdatedAt = r.s.Now().UTC()
	r.s.students[id] = st
	return &st, nil
}

func (r *StudentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.students[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.students, id)
	for k := range r.s.enrollments {
		if k.studentID == id {
			delete(r.s.enrollments, k)
		}
	}
	return nil
}

// SectionRepository is the in-memory sections table
type SectionRepository struct{ s *Store }

var sectionKeys = map[string]func(a, b *models.Section) int{
	"name":         func(a, b *models.Section) int { return cmp.Compare(a.Name, b.Name) },
	"max_capacity": func(a, b *models.Section) int { return cmp.Compare(a.MaxCapacity, b.MaxCapacity) },
	"created_at":   func(a, b *models.Section) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updated_at":   func(a, b *models.Section) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

func sectionID(x *models.Section) int64 { return x.ID }

func (r *SectionRepository) filter(keep func(models.Section) bool) []*models.Section {
	items := []*models.Section{}
	for _, sec := range r.s.sections {
		if keep(sec) {
			items = append(items, &sec)
		}
	}
	return items
}

func matchesSection(query string) func(models.Section) bool {
	return func(sec models.Section) bool {
		return containsFold(sec.Name, query) || (sec.Description != nil && containsFold(*sec.Description, query))
	}
}

func (r *SectionRepository) hasFreeSeats(sec models.Section) bool {
	return r.s.sectionCount(sec.ID) < sec.MaxCapacity
}

func (r *SectionRepository) GetByID(_ context.Context, id int64) (*models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec, ok := r.s.sections[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &sec, nil
}

func (r *SectionRepository) GetByName(_ context.Context, name string) (*models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sec := range r.s.sections {
		if sec.Name == name {
			return &sec, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *SectionRepository) List(_ context.Context, params repositories.ListParams) ([]*models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(all[models.Section]), params, sectionKeys, sectionID), nil
}

func (r *SectionRepository) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.sections)), nil
}

func (r *SectionRepository) Search(_ context.Context, query string, params repositories.ListParams) ([]*models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(matchesSection(query)), params, sectionKeys, sectionID), nil
}

func (r *SectionRepository) CountSearch(_ context.Context, query string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(matchesSection(query)))), nil
}

func (r *SectionRepository) ListAvailable(_ context.Context, params repositories.ListParams) ([]*models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(r.hasFreeSeats), params, sectionKeys, sectionID), nil
}

func (r *SectionRepository) CountAvailable(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(r.hasFreeSeats))), nil
}

func (r *SectionRepository) CountStudents(_ context.Context, sectionID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sectionCount(sectionID), nil
}

func (r *SectionRepository) CountStudentsBySections(_ context.Context, sectionIDs []int64) (map[int64]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[int64]int, len(sectionIDs))
	for _, id := range sectionIDs {
		if n := r.s.sectionCount(id); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (r *SectionRepository) Students(_ context.Context, sectionID int64) ([]models.SectionEnrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.SectionEnrollment{}
	for k, e := range r.s.enrollments {
		if k.sectionID != sectionID {
			continue
		}
		st := r.s.students[k.studentID]
		out = append(out, models.SectionEnrollment{
			StudentID:      st.ID,
			FirstName:      st.FirstName,
			LastName:       st.LastName,
			Email:          st.Email,
			EnrollmentDate: e.EnrollmentDate,
		})
	}
	slices.SortFunc(out, func(a, b models.SectionEnrollment) int {
		if c := a.EnrollmentDate.Compare(b.EnrollmentDate); c != 0 {
			return c
		}
		return cmp.Compare(a.StudentID, b.StudentID)
	})
	return out, nil
}

func (r *SectionRepository) Create(_ context.Context, in models.SectionCreate) (*models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sec := range r.s.sections {
		if sec.Name == in.Name {
			return nil, repositories.ErrAlreadyExists
		}
	}
	sec := models.Section{
		ID:          r.s.id("sections"),
		Name:        in.Name,
		Description: in.Description,
		MaxCapacity: in.MaxCapacity,
		Timestamps:  r.s.stamp(),
	}
	r.s.sections[sec.ID] = sec
	return &sec, nil
}

func (r *SectionRepository) Update(_ context.Context, id int64, in models.SectionUpdate) (*models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec, ok := r.s.sections[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if in.MaxCapacity != nil && *in.MaxCapacity < r.s.sectionCount(id) {
		return nil, repositories.ErrCapacityBelowEnrollment
	}
	if in.Name != nil {
		for _, other := range r.s.sections {
			if other.ID != id && other.Name == *in.Name {
				return nil, repositories.ErrAlreadyExists
			}
		}
		sec.Name = *in.Name
	}
	switch {
	case in.ClearDescription:
		sec.Description = nil
	case in.Description != nil:
		description := *in.Description
		sec.Description = &description
	}
	if in.MaxCapacity != nil {
		sec.MaxCapacity = *in.MaxCapacity
	}
	sec.UpdatedAt = r.s.Now().UTC()
	r.s.sections[id] = sec
	return &sec, nil
}

func (r *SectionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sections[id]; !ok {
		return repositories.ErrNotFound
	}
	if r.s.sectionCount(id) > 0 {
		return repositories.ErrSectionHasEnrollments
	}
	delete(r.s.sections, id)
	return nil
}

// EnrollmentRepository is the in-memory student_sections table
type EnrollmentRepository struct{ s *Store }

func (r *EnrollmentRepository) IsEnrolled(_ context.Context, studentID, sectionID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.enrollments[enrollmentKey{studentID, sectionID}]
	return ok, nil
}

func (r *EnrollmentRepository) Enroll(_ context.Context, e models.Enrollment) (*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec, ok := r.s.sections[e.SectionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if _, ok := r.s.students[e.StudentID]; !ok {
		return nil, repositories.ErrNotFound
	}
	key := enrollmentKey{e.StudentID, e.SectionID}
	if _, ok := r.s.enrollments[key]; ok {
		return nil, repositories.ErrAlreadyEnrolled
	}
	if r.s.sectionCount(e.SectionID) >= sec.MaxCapacity {
		return nil, repositories.ErrSectionFull
	}
	e.Timestamps = r.s.stamp()
	r.s.enrollments[key] = e
	return &e, nil
}

func (r *EnrollmentRepository) Unenroll(_ context.Context, studentID, sectionID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := enrollmentKey{studentID, sectionID}
	if _, ok := r.s.enrollments[key]; !ok {
		return repositories.ErrNotEnrolled
	}
	delete(r.s.enrollments, key)
	return nil
}
