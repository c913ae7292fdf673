package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/enrollment/internal/app/models"
	appRepos "github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

// DefaultCourses is the fixed course catalogue of the demo data
var DefaultCourses = []string{
	"Mathematics",
	"Biology",
	"Physics",
	"Chemistry",
	"History",
	"English",
	"Informatics",
	"Art",
	"Music",
	"Geography",
}

// maxGroupNames is the number of distinct "XY-NN" names
const maxGroupNames = 26 * 26 * 90

// Options sizes the generated data set
type Options struct {
	Groups     int
	Students   int
	FirstNames int
	LastNames  int
	MinCourses int
	MaxCourses int
	// GroupRatio is the probability that a student joins a group
	GroupRatio float64
	// RandomSeed makes the data reproducible; 0 picks a random seed
	RandomSeed uint64
	// Courses defaults to DefaultCourses
	Courses []string
	// Force seeds even when students already exist
	Force bool
}

// OptionsFromConfig maps the seed section of the configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Groups:     cfg.Seed.Groups,
		Students:   cfg.Seed.Students,
		FirstNames: cfg.Seed.FirstNames,
		LastNames:  cfg.Seed.LastNames,
		MinCourses: cfg.Seed.MinCourses,
		MaxCourses: cfg.Seed.MaxCourses,
		GroupRatio: cfg.Seed.GroupRatio,
		RandomSeed: uint64(cfg.Seed.RandomSeed),
	}
}

// PlannedStudent is one generated student with its associations.
// Group and Courses index into Plan.Groups and Plan.Courses; Group is -1
// for students without a group.
type PlannedStudent struct {
	FirstName string
	LastName  string
	Group     int
	Courses   []int
}

// Plan is the complete generated data set, independent of any database
type Plan struct {
	Groups   []string
	Courses  []string
	Students []PlannedStudent
}

// Result summarises what Run wrote
type Result struct {
	Skipped     bool
	Groups      int
	Courses     int
	Students    int
	Enrollments int
	Memberships int
}

func (o Options) courses() []string {
	if len(o.Courses) > 0 {
		return o.Courses
	}
	return DefaultCourses
}

func (o Options) validate() error {
	courses := len(o.courses())
	switch {
	case o.Groups < 0 || o.Groups > maxGroupNames:
		return fmt.Errorf("%w: groups must be between 0 and %d", apperrors.ErrValidationFailed, maxGroupNames)
	case o.Students < 0:
		return fmt.Errorf("%w: students must not be negative", apperrors.ErrValidationFailed)
	case o.Students > 0 && (o.FirstNames < 1 || o.LastNames < 1):
		return fmt.Errorf("%w: name pools must not be empty", apperrors.ErrValidationFailed)
	case o.MinCourses < 0 || o.MinCourses > o.MaxCourses || o.MaxCourses > courses:
		return fmt.Errorf("%w: course range must satisfy 0 <= min <= max <= %d", apperrors.ErrValidationFailed, courses)
	case o.GroupRatio < 0 || o.GroupRatio > 1:
		return fmt.Errorf("%w: group ratio must be within [0, 1]", apperrors.ErrValidationFailed)
	}
	return nil
}

// NewPlan generates the data set described by opts. Equal options with a
// non-zero RandomSeed always yield the same plan.
func NewPlan(opts Options) (*Plan, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	faker := gofakeit.New(opts.RandomSeed)
	plan := &Plan{
		Groups:  groupNames(faker, opts.Groups),
		Courses: append([]string(nil), opts.courses()...),
	}

	firstNames := namePool(faker, opts.FirstNames, faker.FirstName)
	lastNames := namePool(faker, opts.LastNames, faker.LastName)

	plan.Students = make([]PlannedStudent, 0, opts.Students)
	for i := 0; i < opts.Students; i++ {
		student := PlannedStudent{
			FirstName: firstNames[faker.IntRange(0, len(firstNames)-1)],
			LastName:  lastNames[faker.IntRange(0, len(lastNames)-1)],
			Group:     -1,
		}
		if len(plan.Groups) > 0 && faker.Float64Range(0, 1) < opts.GroupRatio {
			student.Group = faker.IntRange(0, len(plan.Groups)-1)
		}
		student.Courses = pickDistinct(faker, len(plan.Courses), faker.IntRange(opts.MinCourses, opts.MaxCourses))
		plan.Students = append(plan.Students, student)
	}

	return plan, nil
}

// groupNames returns n distinct names of the form "XY-NN"
func groupNames(faker *gofakeit.Faker, n int) []string {
	seen := make(map[string]struct{}, n)
	names := make([]string, 0, n)
	for len(names) < n {
		name := fmt.Sprintf("%c%c-%d",
			rune(faker.IntRange('A', 'Z')),
			rune(faker.IntRange('A', 'Z')),
			faker.IntRange(10, 99))
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// namePool draws n distinct values from gen, falling back to numbered
// variants once gen stops producing new ones.
func namePool(faker *gofakeit.Faker, n int, gen func() string) []string {
	seen := make(map[string]struct{}, n)
	pool := make([]string, 0, n)
	for attempts := 0; len(pool) < n; attempts++ {
		name := gen()
		if attempts > n*50 {
			name = fmt.Sprintf("%s%d", name, faker.IntRange(1, 999))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		pool = append(pool, name)
	}
	return pool
}

// pickDistinct returns k distinct indexes in [0, n) using a partial shuffle
func pickDistinct(faker *gofakeit.Faker, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := faker.IntRange(i, n-1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// Run writes a freshly generated plan in one transaction. Existing courses
// and groups are reused by name. Unless opts.Force is set nothing is written
// when the database already holds students.
func Run(ctx context.Context, store *db.Store, opts Options, lgr zerolog.Logger) (*Result, error) {
	plan, err := NewPlan(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	err = store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := appRepos.NewRepositories(tx)

		count, err := repos.Students.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 && !opts.Force {
			lgr.Info().Int64("students", count).Msg("Database already seeded, skipping")
			result.Skipped = true
			return nil
		}

		return apply(ctx, repos, plan, result)
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Seeding failed")
		return nil, fmt.Errorf("seeding failed: %w", err)
	}

	if !result.Skipped {
		lgr.Info().
			Int("groups", result.Groups).
			Int("courses", result.Courses).
			Int("students", result.Students).
			Int("enrollments", result.Enrollments).
			Int("memberships", result.Memberships).
			Msg("Seed data created")
	}
	return result, nil
}

func apply(ctx context.Context, repos *appRepos.Repositories, plan *Plan, result *Result) error {
	courseIDs := make([]int64, len(plan.Courses))
	for i, name := range plan.Courses {
		course, err := repos.Courses.GetByName(ctx, name)
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			course = &appModels.Course{Name: name}
			if err = repos.Courses.Create(ctx, course); err == nil {
				result.Courses++
			}
		}
		if err != nil {
			return fmt.Errorf("course %q: %w", name, err)
		}
		courseIDs[i] = course.ID
	}

	groupIDs := make([]int64, len(plan.Groups))
	for i, name := range plan.Groups {
		group, err := repos.Groups.GetByName(ctx, name)
		if errors.Is(err, apperrors.ErrGroupNotFound) {
			group = &appModels.Group{Name: name}
			if err = repos.Groups.Create(ctx, group); err == nil {
				result.Groups++
			}
		}
		if err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}
		groupIDs[i] = group.ID
	}

	for _, planned := range plan.Students {
		student := &appModels.Student{FirstName: planned.FirstName, LastName: planned.LastName}
		if err := repos.Students.Create(ctx, student); err != nil {
			return err
		}
		result.Students++

		if planned.Group >= 0 {
			if err := repos.Memberships.Add(ctx, student.ID, groupIDs[planned.Group]); err != nil {
				return err
			}
			result.Memberships++
		}

		for _, c := range planned.Courses {
			if err := repos.Enrollments.Add(ctx, student.ID, courseIDs[c]); err != nil {
				return err
			}
			result.Enrollments++
		}
	}

	return nil
}
