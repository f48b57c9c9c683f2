// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"devhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
}

// Options tunes the seeder.
type Options struct {
	// SkipBcrypt stores a plaintext password, speeding up large seeds.
	SkipBcrypt bool
	// MaxDays is the spread of generated createdAt timestamps.
	MaxDays int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var skillPool = []string{
	"Go", "TypeScript", "React", "PostgreSQL", "Kubernetes", "Rust",
	"Python", "GraphQL", "Redis", "Terraform", "Svelte", "gRPC",
}

var ambitionPool = []string{
	"Contribute to open source", "Become a tech lead", "Launch a side project",
	"Master distributed systems", "Speak at a conference", "Mentor juniors",
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		UserName:              gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Name:                  gofakeit.Name(),
		Email:                 gofakeit.Email(),
		Bio:                   gofakeit.Sentence(10),
		AvatarImg:             fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CurrentKnowledge:      gofakeit.Sentence(6),
		CodingAmbitions:       f.pick(ambitionPool, 2),
		PreferredSkills:       f.pick(skillPool, 3),
		IsOnboardingCompleted: true,
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroup persists a group owned by the author; the owner membership is
// created by the group repository path in the app, so the factory creates it
// directly here.
func (f *Factory) CreateGroup(author *models.User, overrides ...func(*models.Group)) (*models.Group, error) {
	group := &models.Group{
		AuthorID:     author.ID,
		Name:         gofakeit.Company() + " Devs",
		Bio:          gofakeit.Sentence(12),
		ProfileImage: fmt.Sprintf("https://picsum.photos/seed/%s/300/300", gofakeit.UUID()),
		CoverImage:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/400", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(group)
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	member := &models.GroupUser{
		UserID:  author.ID,
		GroupID: group.ID,
		Role:    models.GroupRoleAdmin,
	}
	if err := f.db.Create(member).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// BuildContent constructs a content row of the given type without persisting
// it. Useful for batching.
func (f *Factory) BuildContent(author *models.User, t models.ContentType, overrides ...func(*models.Content)) *models.Content {
	content := &models.Content{
		Type:        t,
		Title:       gofakeit.Sentence(5),
		Description: gofakeit.Paragraph(1, 3, 5, "\n"),
		CoverImage:  fmt.Sprintf("https://picsum.photos/seed/%s/800/400", gofakeit.UUID()),
		AuthorID:    author.ID,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rnd.Intn(maxDays)
	hoursBack := f.rnd.Intn(24)
	content.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	switch t {
	case models.ContentTypeMeetup:
		content.MeetupLocation = gofakeit.City()
		content.MeetupLocationImage = fmt.Sprintf("https://picsum.photos/seed/%s/600/400", gofakeit.UUID())
		date := time.Now().Add(time.Duration(f.rnd.Intn(60)+1) * 24 * time.Hour)
		content.MeetupDate = &date
	case models.ContentTypePodcast:
		content.PodcastTitle = gofakeit.Sentence(3)
		content.PodcastFile = fmt.Sprintf("https://cdn.devhub.dev/podcasts/%s.mp3", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(content)
	}
	return content
}

// CreateContentBatch persists multiple content rows in a single DB call.
func (f *Factory) CreateContentBatch(contents []*models.Content) error {
	if len(contents) == 0 {
		return nil
	}
	return f.db.Create(&contents).Error
}

// CreateTags persists tag rows for the given titles, reusing the skill pool
// when titles is empty.
func (f *Factory) CreateTags(titles []string) ([]models.Tag, error) {
	if len(titles) == 0 {
		titles = skillPool
	}
	tags := make([]models.Tag, 0, len(titles))
	for _, t := range titles {
		tags = append(tags, models.Tag{Title: t})
	}
	if err := f.db.Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (f *Factory) pick(pool []string, n int) []string {
	idx := f.rnd.Perm(len(pool))
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}
