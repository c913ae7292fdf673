package routes_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

type pair struct{ student, other int64 }

// memoryBackend implements every service interface on plain maps
type memoryBackend struct {
	mu          sync.Mutex
	nextID      int64
	students    map[int64]*models.Student
	courses     map[int64]*models.Course
	groups      map[int64]*models.Group
	enrollments map[pair]bool
	memberships map[pair]bool
	singleGroup bool
	pingErr     error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		nextID:      100,
		students:    map[int64]*models.Student{},
		courses:     map[int64]*models.Course{},
		groups:      map[int64]*models.Group{},
		enrollments: map[pair]bool{},
		memberships: map[pair]bool{},
		singleGroup: true,
	}
}

func (b *memoryBackend) id(requested int64) int64 {
	if requested > 0 {
		return requested
	}
	b.nextID++
	return b.nextID
}

func sortedValues[T any](m map[int64]*T) []*T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func (b *memoryBackend) Ping(context.Context) error { return b.pingErr }

// StudentService

func (b *memoryBackend) CreateStudent(_ context.Context, s *models.Student) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[s.ID]; ok && s.ID > 0 {
		return apperrors.ErrStudentIDAlreadyExists
	}
	s.ID = b.id(s.ID)
	cp := *s
	b.students[s.ID] = &cp
	return nil
}

func (b *memoryBackend) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

func (b *memoryBackend) GetAllStudents(context.Context) ([]*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.students), nil
}

func (b *memoryBackend) UpdateStudent(_ context.Context, s *models.Student) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	cp := *s
	b.students[s.ID] = &cp
	return nil
}

func (b *memoryBackend) DeleteStudent(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(b.students, id)
	for p := range b.enrollments {
		if p.student == id {
			delete(b.enrollments, p)
		}
	}
	for p := range b.memberships {
		if p.student == id {
			delete(b.memberships, p)
		}
	}
	return nil
}

// CourseService

func (b *memoryBackend) courseNameTaken(name string, except int64) bool {
	for id, c := range b.courses {
		if c.Name == name && id != except {
			return true
		}
	}
	return false
}

func (b *memoryBackend) CreateCourse(_ context.Context, c *models.Course) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.courseNameTaken(c.Name, 0) {
		return apperrors.ErrCourseNameAlreadyExists
	}
	c.ID = b.id(c.ID)
	cp := *c
	b.courses[c.ID] = &cp
	return nil
}

func (b *memoryBackend) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return c, nil
}

func (b *memoryBackend) GetAllCourses(context.Context) ([]*models.Course, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.courses), nil
}

func (b *memoryBackend) UpdateCourse(_ context.Context, c *models.Course) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.courses[c.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if b.courseNameTaken(c.Name, c.ID) {
		return apperrors.ErrCourseNameAlreadyExists
	}
	cp := *c
	b.courses[c.ID] = &cp
	return nil
}

func (b *memoryBackend) DeleteCourse(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(b.courses, id)
	for p := range b.enrollments {
		if p.other == id {
			delete(b.enrollments, p)
		}
	}
	return nil
}

// GroupService

func (b *memoryBackend) CreateGroup(_ context.Context, g *models.Group) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.groups {
		if existing.Name == g.Name {
			return apperrors.ErrGroupNameAlreadyExists
		}
	}
	g.ID = b.id(g.ID)
	cp := *g
	b.groups[g.ID] = &cp
	return nil
}

func (b *memoryBackend) GetGroupByID(_ context.Context, id int64) (*models.Group, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	return g, nil
}

func (b *memoryBackend) GetAllGroups(context.Context) ([]*models.Group, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.groups), nil
}

func (b *memoryBackend) GetGroupsWithMaxStudents(_ context.Context, maxStudents int) ([]*models.GroupWithCount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if maxStudents < 0 {
		return nil, fmt.Errorf("%w: max_students must not be negative", apperrors.ErrValidationFailed)
	}
	out := []*models.GroupWithCount{}
	for _, g := range sortedValues(b.groups) {
		var count int64
		for p := range b.memberships {
			if p.other == g.ID {
				count++
			}
		}
		if count <= int64(maxStudents) {
			out = append(out, &models.GroupWithCount{Group: *g, StudentCount: count})
		}
	}
	return out, nil
}

func (b *memoryBackend) UpdateGroup(_ context.Context, g *models.Group) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.groups[g.ID]; !ok {
		return apperrors.ErrGroupNotFound
	}
	cp := *g
	b.groups[g.ID] = &cp
	return nil
}

func (b *memoryBackend) DeleteGroup(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.groups[id]; !ok {
		return apperrors.ErrGroupNotFound
	}
	delete(b.groups, id)
	for p := range b.memberships {
		if p.other == id {
			delete(b.memberships, p)
		}
	}
	return nil
}

// EnrollmentService

func (b *memoryBackend) requireStudentAndCourse(studentID, courseID int64) error {
	if _, ok := b.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := b.courses[courseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func (b *memoryBackend) Enroll(_ context.Context, studentID, courseID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.requireStudentAndCourse(studentID, courseID); err != nil {
		return err
	}
	p := pair{studentID, courseID}
	if b.enrollments[p] {
		return apperrors.ErrAlreadyEnrolled
	}
	b.enrollments[p] = true
	return nil
}

func (b *memoryBackend) Unenroll(_ context.Context, studentID, courseID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.requireStudentAndCourse(studentID, courseID); err != nil {
		return err
	}
	p := pair{studentID, courseID}
	if !b.enrollments[p] {
		return apperrors.ErrNotEnrolled
	}
	delete(b.enrollments, p)
	return nil
}

func (b *memoryBackend) GetCourseStudents(_ context.Context, courseID int64) ([]*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.courses[courseID]; !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	out := []*models.Student{}
	for _, s := range sortedValues(b.students) {
		if b.enrollments[pair{s.ID, courseID}] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (b *memoryBackend) courseIDByName(name string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, c := range b.courses {
		if c.Name == name {
			return id, nil
		}
	}
	return 0, apperrors.ErrCourseNotFound
}

// resolveNamedCourse mirrors the service order: student first, then the course name
func (b *memoryBackend) resolveNamedCourse(studentID int64, name string) (int64, error) {
	b.mu.Lock()
	_, ok := b.students[studentID]
	b.mu.Unlock()
	if !ok {
		return 0, apperrors.ErrStudentNotFound
	}
	return b.courseIDByName(name)
}

func (b *memoryBackend) EnrollByCourseName(ctx context.Context, studentID int64, courseName string) error {
	courseID, err := b.resolveNamedCourse(studentID, courseName)
	if err != nil {
		return err
	}
	return b.Enroll(ctx, studentID, courseID)
}

func (b *memoryBackend) UnenrollByCourseName(ctx context.Context, studentID int64, courseName string) error {
	courseID, err := b.resolveNamedCourse(studentID, courseName)
	if err != nil {
		return err
	}
	return b.Unenroll(ctx, studentID, courseID)
}

func (b *memoryBackend) GetStudentsByCourseName(ctx context.Context, courseName string) ([]*models.Student, error) {
	courseID, err := b.courseIDByName(courseName)
	if err != nil {
		return nil, err
	}
	return b.GetCourseStudents(ctx, courseID)
}

func (b *memoryBackend) GetStudentCourses(_ context.Context, studentID int64) ([]*models.Course, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[studentID]; !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	out := []*models.Course{}
	for _, c := range sortedValues(b.courses) {
		if b.enrollments[pair{studentID, c.ID}] {
			out = append(out, c)
		}
	}
	return out, nil
}

// MembershipService

func (b *memoryBackend) requireStudentAndGroup(studentID, groupID int64) error {
	if _, ok := b.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := b.groups[groupID]; !ok {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

func (b *memoryBackend) AddMember(_ context.Context, studentID, groupID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.requireStudentAndGroup(studentID, groupID); err != nil {
		return err
	}
	if b.memberships[pair{studentID, groupID}] {
		return apperrors.ErrAlreadyGroupMember
	}
	if b.singleGroup {
		for p := range b.memberships {
			if p.student == studentID {
				return fmt.Errorf("%w (group %d)", apperrors.ErrStudentInAnotherGroup, p.other)
			}
		}
	}
	b.memberships[pair{studentID, groupID}] = true
	return nil
}

func (b *memoryBackend) RemoveMember(_ context.Context, studentID, groupID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.requireStudentAndGroup(studentID, groupID); err != nil {
		return err
	}
	if !b.memberships[pair{studentID, groupID}] {
		return apperrors.ErrNotGroupMember
	}
	delete(b.memberships, pair{studentID, groupID})
	return nil
}

func (b *memoryBackend) GetGroupStudents(_ context.Context, groupID int64) ([]*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.groups[groupID]; !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	out := []*models.Student{}
	for _, s := range sortedValues(b.students) {
		if b.memberships[pair{s.ID, groupID}] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (b *memoryBackend) GetStudentGroups(_ context.Context, studentID int64) ([]*models.Group, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[studentID]; !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	out := []*models.Group{}
	for _, g := range sortedValues(b.groups) {
		if b.memberships[pair{studentID, g.ID}] {
			out = append(out, g)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")
